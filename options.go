package client

import "reflect"

// optionTable holds caller supplied options. Apart from OptPrefixKey nothing
// reads these values; they exist so code configured for a fuller client keeps
// working.
type optionTable map[any]any

func defaultOptions() optionTable {
	return optionTable{
		OptCompression:         true,
		OptSerializer:          SerializerJSON,
		OptPrefixKey:           "",
		OptHash:                HashDefault,
		OptDistribution:        DistributionModula,
		OptLibketamaCompatible: false,
		OptBufferWrites:        false,
		OptBinaryProtocol:      false,
		OptNoBlock:             false,
		OptTCPNoDelay:          false,
		OptSocketSendSize:      32767,
		OptSocketRecvSize:      65535,
		OptConnectTimeout:      1000,
		OptRetryTimeout:        0,
		OptSendTimeout:         0,
		OptRecvTimeout:         0,
		OptPollTimeout:         1000,
		OptCacheLookups:        false,
		OptServerFailureLimit:  0,
	}
}

// normalize maps untyped integer keys onto Option so GetOption(-1002) and
// GetOption(OptPrefixKey) name the same entry.
func normalize(key any) any {
	if n, ok := key.(int); ok {
		return Option(n)
	}
	return key
}

// hashable reports whether key can index the table without panicking.
func hashable(key any) bool {
	return key == nil || reflect.ValueOf(key).Comparable()
}

func (o optionTable) get(key any) (any, bool) {
	if !hashable(key) {
		return nil, false
	}
	v, ok := o[normalize(key)]
	return v, ok
}

func (o optionTable) set(key, value any) bool {
	if !hashable(key) {
		return false
	}
	o[normalize(key)] = value
	return true
}

// GetOption returns the value stored for key. ok is false, and the result
// code ResFailure, when the key was never set or cannot index the table.
func (c *Client) GetOption(key any) (any, bool) {
	v, ok := c.options.get(key)
	if !ok {
		c.record(ResFailure, "option not found", nil)
		return nil, false
	}
	c.record(ResSuccess, "", nil)
	return v, true
}

// SetOption inserts or overwrites a single option. Keys that cannot index a
// map, such as slices, are refused with ResFailure.
func (c *Client) SetOption(key, value any) bool {
	if !c.options.set(key, value) {
		c.record(ResFailure, "invalid option key", nil)
		return false
	}
	c.record(ResSuccess, "", nil)
	return true
}

// SetOptions merges options into the table, overwriting existing keys.
func (c *Client) SetOptions(options map[any]any) bool {
	for k, v := range options {
		c.options.set(k, v)
	}
	c.record(ResSuccess, "", nil)
	return true
}
