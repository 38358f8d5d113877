// Package bridge is the restricted channel between an unprivileged client
// and the desktop host. Only allow-listed channels can be handled or
// invoked, and every payload crosses the boundary as JSON so neither side
// shares memory with the other.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/domain"
)

// Request/response channels.
const (
	GetFolders          = "get-folders"
	GetDocuments        = "get-documents"
	CreateDocument      = "create-document"
	UpdateDocument      = "update-document"
	SearchDocuments     = "search-documents"
	GitSync             = "git-sync"
	OpenDocumentsFolder = "open-documents-folder"
	SetupGitHubRepo     = "setup-github-repo"
)

// Notification channels.
const (
	FileChanged = "file-changed"
)

var (
	// ErrChannelNotAllowed is returned for channels outside the allow-list.
	ErrChannelNotAllowed = errors.New("channel not allowed")

	// ErrNoHandler is returned when an allowed channel has no handler yet.
	ErrNoHandler = errors.New("no handler registered")
)

// Handler serves one invocation. payload is the caller's request as JSON,
// or null when the channel takes no argument.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

type Bridge struct {
	mu        sync.RWMutex
	invokable map[string]bool
	notifying map[string]bool
	handlers  map[string]Handler
	listeners map[string]map[int]func(json.RawMessage)
	nextID    int
}

// New returns a bridge exposing the standard document channels.
func New() *Bridge {
	return NewWithChannels(
		[]string{GetFolders, GetDocuments, CreateDocument, UpdateDocument,
			SearchDocuments, GitSync, OpenDocumentsFolder, SetupGitHubRepo},
		[]string{FileChanged},
	)
}

func NewWithChannels(invoke, notify []string) *Bridge {
	b := &Bridge{
		invokable: make(map[string]bool),
		notifying: make(map[string]bool),
		handlers:  make(map[string]Handler),
		listeners: make(map[string]map[int]func(json.RawMessage)),
	}
	for _, c := range invoke {
		b.invokable[c] = true
	}
	for _, c := range notify {
		b.notifying[c] = true
	}
	return b
}

// Handle registers the host-side handler for channel, replacing any
// previous one.
func (b *Bridge) Handle(channel string, h Handler) error {
	if !b.invokable[channel] {
		return fmt.Errorf("handle %q: %w", channel, ErrChannelNotAllowed)
	}
	b.mu.Lock()
	b.handlers[channel] = h
	b.mu.Unlock()
	return nil
}

// Invoke sends req over channel and decodes the reply into resp, which may
// be nil. Errors raised by the handler come back as *RemoteError and still
// match the domain sentinels with errors.Is; failures of the bridge itself
// match domain.ErrTransport.
func (b *Bridge) Invoke(ctx context.Context, channel string, req, resp any) error {
	if !b.invokable[channel] {
		return fmt.Errorf("invoke %q: %w: %w", channel, domain.ErrTransport, ErrChannelNotAllowed)
	}

	b.mu.RLock()
	h, ok := b.handlers[channel]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("invoke %q: %w: %w", channel, domain.ErrTransport, ErrNoHandler)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("invoke %q: %w: encode request: %v", channel, domain.ErrTransport, err)
	}

	out, herr := h(ctx, payload)
	if herr != nil {
		// The error is flattened to a code and message as it crosses over.
		data, _ := json.Marshal(toRemote(herr))
		var remote RemoteError
		if err := json.Unmarshal(data, &remote); err != nil {
			return fmt.Errorf("invoke %q: %w: decode error: %v", channel, domain.ErrTransport, err)
		}
		return &remote
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("invoke %q: %w: encode reply: %v", channel, domain.ErrTransport, err)
	}
	if resp == nil {
		return nil
	}
	if err := json.Unmarshal(data, resp); err != nil {
		return fmt.Errorf("invoke %q: %w: decode reply: %v", channel, domain.ErrTransport, err)
	}
	return nil
}

// On subscribes fn to a notification channel. The returned function
// removes the subscription.
func (b *Bridge) On(channel string, fn func(payload json.RawMessage)) (func(), error) {
	if !b.notifying[channel] {
		return nil, fmt.Errorf("on %q: %w", channel, ErrChannelNotAllowed)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.listeners[channel] == nil {
		b.listeners[channel] = make(map[int]func(json.RawMessage))
	}
	b.listeners[channel][id] = fn

	return func() {
		b.mu.Lock()
		delete(b.listeners[channel], id)
		b.mu.Unlock()
	}, nil
}

// RemoveAllListeners drops every subscription on channel.
func (b *Bridge) RemoveAllListeners(channel string) {
	b.mu.Lock()
	delete(b.listeners, channel)
	b.mu.Unlock()
}

// Notify delivers payload to every subscriber of channel, synchronously.
func (b *Bridge) Notify(channel string, payload any) error {
	if !b.notifying[channel] {
		return fmt.Errorf("notify %q: %w", channel, ErrChannelNotAllowed)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify %q: %w", channel, err)
	}

	b.mu.RLock()
	fns := make([]func(json.RawMessage), 0, len(b.listeners[channel]))
	for _, fn := range b.listeners[channel] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(data)
	}
	log.Debug().Str("component", "bridge").Str("channel", channel).Int("listeners", len(fns)).Msg("Notified")
	return nil
}
