package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"golang.org/x/oauth2"
)

// FileStore persists tokens as a JSON snapshot at an afs URL (local path,
// mem:// or any storage afs supports).
type FileStore struct {
	mu     sync.RWMutex
	fs     afs.Service
	URL    string
	tokens map[string]*oauth2.Token
}

type fileSnapshot struct {
	Tokens map[string]*oauth2.Token `json:"tokens"`
}

// NewFileStore creates a Store persisted at URL, loading any existing snapshot.
func NewFileStore(ctx context.Context, URL string) (*FileStore, error) {
	ret := &FileStore{fs: afs.New(), URL: URL, tokens: map[string]*oauth2.Token{}}
	if err := ret.load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load token store %v: %w", URL, err)
	}
	return ret, nil
}

func (f *FileStore) LookupToken(key string) (*oauth2.Token, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	token, ok := f.tokens[key]
	return token, ok
}

func (f *FileStore) AddToken(key string, token *oauth2.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[key] = token
	return f.save(context.Background())
}

func (f *FileStore) DeleteToken(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, key)
	return f.save(context.Background())
}

func (f *FileStore) save(ctx context.Context) error {
	data, err := json.MarshalIndent(fileSnapshot{Tokens: f.tokens}, "", "  ")
	if err != nil {
		return err
	}
	return f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data))
}

func (f *FileStore) load(ctx context.Context) error {
	exists, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !exists {
		return err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return err
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	for k, v := range snap.Tokens {
		f.tokens[k] = v
	}
	return nil
}
