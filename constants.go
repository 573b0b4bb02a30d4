package client

// Option identifies an entry of the option table. The values follow the
// php-memcached / libmemcached numbering so configuration written for those
// clients carries over unchanged.
type Option int

const (
	OptCompression Option = -1001
	OptPrefixKey   Option = -1002
	OptSerializer  Option = -1003

	OptNoBlock             Option = 0
	OptTCPNoDelay          Option = 1
	OptHash                Option = 2
	OptSocketSendSize      Option = 4
	OptSocketRecvSize      Option = 5
	OptCacheLookups        Option = 6
	OptPollTimeout         Option = 8
	OptDistribution        Option = 9
	OptBufferWrites        Option = 10
	OptConnectTimeout      Option = 14
	OptRetryTimeout        Option = 15
	OptLibketamaCompatible Option = 16
	OptBinaryProtocol      Option = 18
	OptSendTimeout         Option = 19
	OptRecvTimeout         Option = 20
	OptServerFailureLimit  Option = 21
)

// Values for OptSerializer.
const (
	SerializerPHP      = 1
	SerializerIgbinary = 2
	SerializerJSON     = 3
)

// Values for OptHash.
const (
	HashDefault = iota
	HashMD5
	HashCRC
	HashFNV1_64
	HashFNV1A_64
	HashFNV1_32
	HashFNV1A_32
	HashHsieh
	HashMurmur
)

// Values for OptDistribution.
const (
	DistributionModula     = 0
	DistributionConsistent = 1
)

// ResultCode describes the outcome of the last operation, numbered after
// libmemcached's memcached_return_t.
type ResultCode int

const (
	ResSuccess                       ResultCode = 0
	ResFailure                       ResultCode = 1
	ResHostLookupFailure             ResultCode = 2
	ResWriteFailure                  ResultCode = 5
	ResUnknownReadFailure            ResultCode = 7
	ResProtocolError                 ResultCode = 8
	ResClientError                   ResultCode = 9
	ResServerError                   ResultCode = 10
	ResConnectionSocketCreateFailure ResultCode = 11
	ResDataExists                    ResultCode = 12
	ResNotStored                     ResultCode = 14
	ResNotFound                      ResultCode = 16
	ResPartialRead                   ResultCode = 18
	ResSomeErrors                    ResultCode = 19
	ResNoServers                     ResultCode = 20
	ResEnd                           ResultCode = 21
	ResErrno                         ResultCode = 26
	ResTimeout                       ResultCode = 31
	ResBuffered                      ResultCode = 32
	ResBadKeyProvided                ResultCode = 33
	ResPayloadFailure                ResultCode = -1001
)

func (r ResultCode) String() string {
	switch r {
	case ResSuccess:
		return "SUCCESS"
	case ResFailure:
		return "FAILURE"
	case ResHostLookupFailure:
		return "HOST LOOKUP FAILURE"
	case ResWriteFailure:
		return "WRITE FAILURE"
	case ResUnknownReadFailure:
		return "UNKNOWN READ FAILURE"
	case ResProtocolError:
		return "PROTOCOL ERROR"
	case ResClientError:
		return "CLIENT ERROR"
	case ResServerError:
		return "SERVER ERROR"
	case ResConnectionSocketCreateFailure:
		return "CONNECTION SOCKET CREATE FAILURE"
	case ResDataExists:
		return "CONNECTION DATA EXISTS"
	case ResNotStored:
		return "NOT STORED"
	case ResNotFound:
		return "NOT FOUND"
	case ResPartialRead:
		return "PARTIAL READ"
	case ResSomeErrors:
		return "SOME ERRORS WERE REPORTED"
	case ResNoServers:
		return "NO SERVERS DEFINED"
	case ResEnd:
		return "SERVER END"
	case ResErrno:
		return "SYSTEM ERROR"
	case ResTimeout:
		return "A TIMEOUT OCCURRED"
	case ResBuffered:
		return "ACTION QUEUED"
	case ResBadKeyProvided:
		return "A BAD KEY WAS PROVIDED/CHARACTERS OUT OF RANGE"
	case ResPayloadFailure:
		return "PAYLOAD FAILURE"
	}
	return "UNKNOWN"
}
