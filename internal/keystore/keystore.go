// Package keystore persists the player's oracle API key and keeps the
// oracle client in sync with it.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// StorageKey is the kv key the API key is stored under.
const StorageKey = "misparia_api_key"

// ErrInvalidKey means the key failed the oracle probe. Nothing was saved.
var ErrInvalidKey = errors.New("invalid API key")

// KV is the durable storage the key lives in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Oracle probes candidate keys and receives the active one.
// *oracle.Client implements it.
type Oracle interface {
	ValidateKey(ctx context.Context, key string) error
	SetCredential(ctx context.Context, key string) error
}

// Source tells where the active key came from.
type Source string

const (
	SourceNone   Source = "none"
	SourceStored Source = "stored"
	SourceEnv    Source = "env"
)

// Keystore manages the stored key. envKey is the fallback taken from the
// environment at startup and may be empty.
type Keystore struct {
	kv     KV
	oracle Oracle
	envKey string
	logger *zap.Logger
}

func New(kv KV, oracle Oracle, envKey string, logger *zap.Logger) *Keystore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Keystore{kv: kv, oracle: oracle, envKey: envKey, logger: logger.Named("keystore")}
}

// Get returns the stored key, else the environment fallback.
func (k *Keystore) Get(ctx context.Context) (string, Source, error) {
	raw, ok, err := k.kv.Get(ctx, StorageKey)
	if err != nil {
		return "", SourceNone, fmt.Errorf("load API key: %w", err)
	}
	if ok && len(raw) > 0 {
		return string(raw), SourceStored, nil
	}
	if k.envKey != "" {
		return k.envKey, SourceEnv, nil
	}
	return "", SourceNone, nil
}

// Activate hands the current key to the oracle. Called once at startup.
func (k *Keystore) Activate(ctx context.Context) error {
	key, _, err := k.Get(ctx)
	if err != nil {
		return err
	}
	return k.oracle.SetCredential(ctx, key)
}

// Save probes key with the oracle, persists it and makes it active.
func (k *Keystore) Save(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidKey
	}
	if err := k.oracle.ValidateKey(ctx, key); err != nil {
		k.logger.Info("API key rejected", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if err := k.kv.Put(ctx, StorageKey, []byte(key)); err != nil {
		return fmt.Errorf("store API key: %w", err)
	}
	return k.oracle.SetCredential(ctx, key)
}

// Clear removes the stored key. The environment fallback, if any, becomes
// active again.
func (k *Keystore) Clear(ctx context.Context) error {
	if err := k.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("remove API key: %w", err)
	}
	return k.oracle.SetCredential(ctx, k.envKey)
}

// Mask renders a key for display, keeping four characters at each end.
func Mask(key string) string {
	r := []rune(key)
	if len(r) <= 8 {
		return strings.Repeat("•", len(r))
	}
	return string(r[:4]) + strings.Repeat("•", 4) + string(r[len(r)-4:])
}
