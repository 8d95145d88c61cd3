package redis

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// commandRecorder answers commands in place of a server and records their
// arguments.
type commandRecorder struct {
	mu     sync.Mutex
	cmds   [][]any
	values map[string]string
}

func (r *commandRecorder) DialHook(next redis.DialHook) redis.DialHook { return next }

func (r *commandRecorder) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (r *commandRecorder) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.cmds = append(r.cmds, cmd.Args())

		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := r.values[c.Args()[1].(string)]
			if !ok {
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			c.SetVal("OK")
		case *redis.IntCmd:
			c.SetVal(int64(len(c.Args()) - 1))
		}
		return nil
	}
}

func (r *commandRecorder) recorded() [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]any(nil), r.cmds...)
}

func newRecordedStore(t *testing.T, values map[string]string) (*KVStore, *commandRecorder) {
	t.Helper()
	rec := &commandRecorder{values: values}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(rec)
	t.Cleanup(func() { _ = client.Close() })
	return NewKVStore(client, "laundry:"), rec
}

func TestKVStore_PrefixesKeys(t *testing.T) {
	ctx := context.Background()
	s, rec := newRecordedStore(t, map[string]string{"laundry:session:ws-1": "payload"})

	got, err := s.Get(ctx, "session:ws-1")
	if err != nil || string(got) != "payload" {
		t.Fatalf("expected payload, got %q, %v", got, err)
	}
	if err := s.Set(ctx, "tenant:ws-1", []byte("t"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	cmds := rec.recorded()
	if cmds[0][1] != "laundry:session:ws-1" {
		t.Errorf("get must use the prefixed key, got %v", cmds[0])
	}
	if cmds[1][0] != "set" || cmds[1][1] != "laundry:tenant:ws-1" || cmds[1][3] != "ex" {
		t.Errorf("unexpected set command %v", cmds[1])
	}
}

func TestKVStore_MissIsKeyNotFound(t *testing.T) {
	s, _ := newRecordedStore(t, nil)

	if _, err := s.Get(context.Background(), "session:none"); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestKVStore_DeleteIsOneCommand(t *testing.T) {
	ctx := context.Background()
	s, rec := newRecordedStore(t, nil)

	if err := s.Delete(ctx); err != nil {
		t.Fatalf("empty delete: %v", err)
	}
	if err := s.Delete(ctx, "session:ws-1", "tenant:ws-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	cmds := rec.recorded()
	want := [][]any{{"del", "laundry:session:ws-1", "laundry:tenant:ws-1"}}
	if !reflect.DeepEqual(cmds, want) {
		t.Errorf("expected a single DEL, got %v", cmds)
	}
}
