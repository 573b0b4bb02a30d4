package client

import (
	"fmt"
	"testing"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/jsp-lqk/memcached-shim/internal/memdtest"
)

const totalKeys = 1000

func BenchmarkMemcacheGet(b *testing.B) {
	srv := memdtest.Start(b)
	client := memcache.New(srv.Addr())
	for i := 0; i < totalKeys; i++ {
		if err := client.Set(&memcache.Item{Key: fmt.Sprintf("key%d", i), Value: []byte(fmt.Sprintf("value%d", i))}); err != nil {
			b.Fatalf("Failed to set initial data: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Get(fmt.Sprintf("key%d", i%totalKeys)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkClientGet(b *testing.B) {
	srv := memdtest.Start(b)
	c := New(quietConfig())
	c.AddServer(srv.Host(), srv.Port(), 0)
	defer c.Shutdown()
	for i := 0; i < totalKeys; i++ {
		if !c.SetBytes(fmt.Sprintf("key%d", i), []byte(fmt.Sprintf("value%d", i)), 0) {
			b.Fatalf("Failed to set initial data: %s", c.ResultMessage())
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := c.GetBytes(fmt.Sprintf("key%d", i%totalKeys)); !ok {
			b.Fatal(c.ResultMessage())
		}
	}
}

func BenchmarkClientSet(b *testing.B) {
	srv := memdtest.Start(b)
	c := New(quietConfig())
	c.AddServer(srv.Host(), srv.Port(), 0)
	defer c.Shutdown()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !c.Set(fmt.Sprintf("key%d", i%totalKeys), i, 0) {
			b.Fatal(c.ResultMessage())
		}
	}
}
