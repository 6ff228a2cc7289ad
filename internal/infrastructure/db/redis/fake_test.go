package redis

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// memoryHook answers GET, SET, DEL and PING from a map so the client never
// dials. Any other command fails, as does everything once failWith is set.
type memoryHook struct {
	mu       sync.Mutex
	data     map[string]string
	failWith error
}

func newMemoryClient() (*redis.Client, *memoryHook) {
	h := &memoryHook{data: map[string]string{}}
	c := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	c.AddHook(h)
	return c, h
}

func (h *memoryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("memory client does not dial %s", addr)
	}
}

func (h *memoryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			h.process(cmd)
		}
		return cmds[len(cmds)-1].Err()
	}
}

func (h *memoryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.process(cmd)
		return cmd.Err()
	}
}

func (h *memoryHook) process(cmd redis.Cmder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failWith != nil {
		cmd.SetErr(h.failWith)
		return
	}

	args := cmd.Args()
	switch c := cmd.(type) {
	case *redis.StringCmd:
		if v, ok := h.data[fmt.Sprint(args[1])]; ok {
			c.SetVal(v)
			return
		}
		c.SetErr(redis.Nil)
	case *redis.StatusCmd:
		if strings.EqualFold(cmd.Name(), "set") {
			h.data[fmt.Sprint(args[1])] = fmt.Sprint(args[2])
		}
		c.SetVal("OK")
	case *redis.IntCmd:
		var n int64
		for _, k := range args[1:] {
			if _, ok := h.data[fmt.Sprint(k)]; ok {
				delete(h.data, fmt.Sprint(k))
				n++
			}
		}
		c.SetVal(n)
	default:
		cmd.SetErr(fmt.Errorf("memory client: unsupported command %s", cmd.Name()))
	}
}
