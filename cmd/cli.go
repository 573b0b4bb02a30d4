package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	client "github.com/jsp-lqk/memcached-shim"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config file] [-server host[:port]] set|get|delete|incr|decr key [value]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	server := flag.String("server", "", "server to use instead of the configured list")
	expiry := flag.Int("expiry", 0, "expiration in seconds for set")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.Servers = []string{*server}
	}
	if len(cfg.Servers) == 0 {
		cfg.Servers = []string{"127.0.0.1"}
	}
	servers, err := cfg.servers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	c := client.New(client.Config{
		DialTimeout: cfg.DialTimeout,
		Timeout:     cfg.Timeout,
		Logger:      logger,
	})
	defer c.Shutdown()
	c.SetOption(client.OptPrefixKey, cfg.Prefix)
	c.AddServers(servers...)

	if !run(c, args[0], args[1], args[2:], *expiry) {
		logger.Error("command failed", "command", args[0], "key", args[1],
			"code", int(c.ResultCode()), "message", c.ResultMessage())
		os.Exit(1)
	}
}

func run(c *client.Client, command, key string, rest []string, expiry int) bool {
	switch command {
	case "set":
		if len(rest) != 1 {
			usage()
			os.Exit(2)
		}
		var value any = rest[0]
		if n, err := strconv.ParseInt(rest[0], 10, 64); err == nil {
			value = n
		}
		if !c.Set(key, value, expiry) {
			return false
		}
		fmt.Println("STORED")
	case "get":
		var value any
		if !c.Get(key, &value) {
			return false
		}
		fmt.Println(value)
	case "delete":
		if !c.Delete(key) {
			return false
		}
		fmt.Println("DELETED")
	case "incr", "decr":
		offset := uint64(1)
		if len(rest) == 1 {
			n, err := strconv.ParseUint(rest[0], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid offset %q\n", rest[0])
				os.Exit(2)
			}
			offset = n
		}
		var n uint64
		var ok bool
		if command == "incr" {
			n, ok = c.Increment(key, offset)
		} else {
			n, ok = c.Decrement(key, offset)
		}
		if !ok {
			return false
		}
		fmt.Println(n)
	default:
		usage()
		os.Exit(2)
	}
	return true
}
