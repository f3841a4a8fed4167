// Package events is a small in-process, typed publish/subscribe bus.
// Handlers run synchronously on the publisher's goroutine.
package events

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

type subscriber struct {
	id uint64
	fn func(any)
}

var (
	mu     sync.RWMutex
	nextID uint64
	subs   = map[string][]subscriber{} // type name -> subscribers
	logger = zap.NewNop()
)

// SetLogger sets where recovered handler panics are reported.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l.Named("events")
	mu.Unlock()
}

func typeNameOf[T any]() string {
	var zero *T
	rt := reflect.TypeOf(zero).Elem() // *T -> T without dereferencing nil
	return rt.PkgPath() + "." + rt.Name()
}

// Subscribe registers fn for events of type T and returns its cancel func.
func Subscribe[T any](fn func(T)) func() {
	name := typeNameOf[T]()
	wrapped := func(v any) {
		if ev, ok := v.(T); ok {
			fn(ev)
		}
	}

	mu.Lock()
	nextID++
	id := nextID
	subs[name] = append(subs[name], subscriber{id: id, fn: wrapped})
	mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			defer mu.Unlock()
			ss := subs[name]
			for i, s := range ss {
				if s.id == id {
					subs[name] = append(ss[:i:i], ss[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers ev to every current subscriber of T. A panicking
// subscriber is logged and does not stop delivery to the rest.
func Publish[T any](ev T) {
	name := typeNameOf[T]()
	mu.RLock()
	ss := append([]subscriber(nil), subs[name]...)
	log := logger
	mu.RUnlock()
	for _, s := range ss {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("subscriber panic", zap.String("event", name), zap.Any("panic", r))
				}
			}()
			s.fn(ev)
		}()
	}
}
