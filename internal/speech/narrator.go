package speech

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/logger"
)

// Compile-time interface check.
var _ domain.Narrator = (*Narrator)(nil)

// NarratorOption configures the Narrator.
type NarratorOption func(*Narrator)

// WithChunkSize sets the approximate max character count per TTS request.
// Longer text is split at sentence boundaries and synthesized in parallel.
func WithChunkSize(size int) NarratorOption {
	return func(n *Narrator) {
		n.chunkSize = size
	}
}

// WithCache sets the audio cache. By default an in-memory cache is used.
func WithCache(c *AudioCache) NarratorOption {
	return func(n *Narrator) {
		n.cache = c
	}
}

// Narrator serializes speech output: queue -> chunk -> synthesize
// (parallel) -> play (sequential). Only one thing speaks at a time and
// higher priority items go first.
type Narrator struct {
	tts       Synthesizer
	player    AudioPlayer
	cache     *AudioCache
	log       *logger.Logger
	chunkSize int

	mu       sync.Mutex
	queue    []request
	notify   chan struct{}
	speaking bool
	// epoch is bumped by Interrupt; playback started under an older epoch
	// stops at the next chunk boundary.
	epoch uint64
}

// NewNarrator creates a narrator on top of a synthesizer and a player.
// Call Start before Say has any audible effect.
func NewNarrator(tts Synthesizer, player AudioPlayer, log *logger.Logger, opts ...NarratorOption) *Narrator {
	n := &Narrator{
		tts:       tts,
		player:    player,
		log:       log,
		chunkSize: 200,
		notify:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.cache == nil {
		n.cache = NewAudioCache(tts.Voice(), "", false, log)
	}
	return n
}

// Say queues text at PriorityNormal. Non-blocking.
func (n *Narrator) Say(text string) {
	n.SayWith(text, PriorityNormal)
}

// SayWith queues text at the given priority. Queuing anything above
// PriorityLow drops pending low-priority items.
func (n *Narrator) SayWith(text string, priority Priority) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	n.mu.Lock()
	if priority > PriorityLow {
		kept := n.queue[:0]
		for _, r := range n.queue {
			if r.priority > PriorityLow {
				kept = append(kept, r)
			}
		}
		n.queue = kept
	}
	n.queue = append(n.queue, request{text: text, priority: priority, queuedAt: time.Now()})
	qLen := len(n.queue)
	n.mu.Unlock()

	n.log.Debug("narrator: queued (priority=%d, queue_len=%d): %s", priority, qLen, truncate(text, 60))

	select {
	case n.notify <- struct{}{}:
	default:
	}
}

// Interrupt clears the queue and stops the current playback.
func (n *Narrator) Interrupt() {
	n.mu.Lock()
	n.queue = n.queue[:0]
	n.epoch++
	n.mu.Unlock()

	n.player.Stop()
	n.log.Debug("narrator: interrupted")
}

// Speaking reports whether audio is being synthesized or played.
func (n *Narrator) Speaking() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.speaking
}

// Cache returns the audio cache, for stats.
func (n *Narrator) Cache() *AudioCache { return n.cache }

// Start runs the processing goroutine until ctx is done. Non-blocking.
func (n *Narrator) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				n.log.Info("narrator stopped")
				return
			case <-n.notify:
				n.drain(ctx)
			}
		}
	}()
	n.log.Info("narrator started")
}

func (n *Narrator) drain(ctx context.Context) {
	for ctx.Err() == nil {
		req, epoch, ok := n.dequeue()
		if !ok {
			return
		}
		n.setSpeaking(true)
		n.speak(ctx, req, epoch)
		n.setSpeaking(false)
	}
}

// dequeue removes the highest priority item, oldest first among equals.
func (n *Narrator) dequeue() (request, uint64, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.queue) == 0 {
		return request{}, n.epoch, false
	}
	best := 0
	for i, r := range n.queue {
		if r.priority > n.queue[best].priority {
			best = i
		}
	}
	req := n.queue[best]
	n.queue = append(n.queue[:best], n.queue[best+1:]...)
	return req, n.epoch, true
}

func (n *Narrator) setSpeaking(v bool) {
	n.mu.Lock()
	n.speaking = v
	n.mu.Unlock()
}

func (n *Narrator) current(epoch uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.epoch == epoch
}

func (n *Narrator) speak(ctx context.Context, req request, epoch uint64) {
	n.log.Debug("narrator: speaking (waited=%s): %s", time.Since(req.queuedAt).Round(time.Millisecond), truncate(req.text, 60))

	chunks := splitChunks(req.text, n.chunkSize)
	audio := make([][]byte, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := n.synthesize(ctx, chunk)
			if err != nil {
				n.log.Error("narrator: chunk %d synthesis failed: %v", i, err)
				return
			}
			audio[i] = a
		}()
	}
	wg.Wait()

	for i, a := range audio {
		if ctx.Err() != nil || !n.current(epoch) {
			n.log.Debug("narrator: playback abandoned at chunk %d", i)
			return
		}
		if a == nil {
			continue
		}
		if err := n.player.Play(a); err != nil {
			n.log.Error("narrator: chunk %d playback failed: %v", i, err)
		}
	}
}

func (n *Narrator) synthesize(ctx context.Context, text string) ([]byte, error) {
	if a, ok := n.cache.Get(text); ok {
		return a, nil
	}
	a, err := n.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	n.cache.Put(text, a)
	return a, nil
}

// splitChunks breaks text into sentence-boundary chunks of roughly size
// characters. A single sentence longer than size stays whole.
func splitChunks(text string, size int) []string {
	if size <= 0 || len(text) <= size {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}
	for _, s := range splitSentences(text) {
		if current.Len() > 0 && current.Len()+len(s) > size {
			flush()
		}
		current.WriteString(s)
	}
	flush()
	return chunks
}

// splitSentences splits text after . ! ? keeping the punctuation and any
// following whitespace with the sentence.
func splitSentences(text string) []string {
	var (
		out     []string
		current strings.Builder
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if !isSentenceEnd(runes[i]) {
			continue
		}
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
			current.WriteRune(runes[i])
		}
		out = append(out, current.String())
		current.Reset()
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
