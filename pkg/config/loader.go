package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[string]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into the provided struct. The first call
// in a process also loads the default .env file when one exists. A
// successfully parsed type is cached, so repeated calls for the same type are
// cheap and observe identical values.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// The .env file is a development convenience; its absence is fine.
		_ = godotenv.Load()
	})

	key := typeName[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	// A copy goes into the cache so later mutation of *v cannot leak back.
	cache[key] = *v
	return nil
}

// MustLoad works like Load but panics on failure. Intended for configuration
// the binary cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func typeName[T any]() string {
	t := reflect.TypeOf(*new(T))
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
