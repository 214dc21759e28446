package speech

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/bigbite/internal/logger"
)

// echoSynth returns the text itself as "audio".
type echoSynth struct {
	mu    sync.Mutex
	calls int
	fail  string
}

func (s *echoSynth) Voice() string { return "test-voice" }

func (s *echoSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.fail != "" && strings.Contains(text, s.fail) {
		return nil, errors.New("synthesis failed")
	}
	return []byte(text), nil
}

// recordingPlayer reports every played chunk and can block until Stop.
type recordingPlayer struct {
	played chan string
	block  bool
	stop   chan struct{}
}

func newRecordingPlayer(block bool) *recordingPlayer {
	return &recordingPlayer{played: make(chan string, 16), block: block, stop: make(chan struct{}, 1)}
}

func (p *recordingPlayer) Play(wav []byte) error {
	p.played <- string(wav)
	if p.block {
		<-p.stop
	}
	return nil
}

func (p *recordingPlayer) Stop() {
	select {
	case p.stop <- struct{}{}:
	default:
	}
}

func expectPlayed(t *testing.T, p *recordingPlayer, want ...string) {
	t.Helper()
	var got []string
	for range want {
		select {
		case s := <-p.played:
			got = append(got, s)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out; played so far %q, want %q", got, want)
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("played %q, want %q", got, want)
	}
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"short", "Crack the eggs.", 200, []string{"Crack the eggs."}},
		{"disabled", "One. Two. Three.", 0, []string{"One. Two. Three."}},
		{"split", "One. Two. Three.", 10, []string{"One. Two.", "Three."}},
		{"long sentence stays whole", "Whisk everything together well. Done!", 10, []string{"Whisk everything together well.", "Done!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitChunks(tt.text, tt.size); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("splitChunks = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNarratorPlaysChunksInOrder(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	synth := &echoSynth{}
	player := newRecordingPlayer(false)
	n := NewNarrator(synth, player, log, WithChunkSize(10))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n.Start(ctx)

	n.Say("One. Two. Three.")
	expectPlayed(t, player, "One. Two.", "Three.")

	// Second read-out is served from the cache.
	n.Say("One. Two. Three.")
	expectPlayed(t, player, "One. Two.", "Three.")
	synth.mu.Lock()
	calls := synth.calls
	synth.mu.Unlock()
	if calls != 2 {
		t.Fatalf("expected 2 synthesis calls, got %d", calls)
	}
}

func TestNarratorSkipsFailedChunk(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	player := newRecordingPlayer(false)
	n := NewNarrator(&echoSynth{fail: "Two"}, player, log, WithChunkSize(5))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n.Start(ctx)

	n.Say("One. Two. Three.")
	expectPlayed(t, player, "One.", "Three.")
}

func TestNarratorInterrupt(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	player := newRecordingPlayer(true)
	n := NewNarrator(&echoSynth{}, player, log, WithChunkSize(5))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n.Start(ctx)

	n.Say("One. Two. Three.")
	expectPlayed(t, player, "One.")

	n.Interrupt()

	select {
	case s := <-player.played:
		t.Fatalf("played %q after interrupt", s)
	case <-time.After(100 * time.Millisecond):
	}

	// The narrator keeps working after an interrupt.
	n.Say("Four.")
	expectPlayed(t, player, "Four.")
	player.Stop()
}

func TestNarratorIgnoresBlankText(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	n := NewNarrator(&echoSynth{}, newRecordingPlayer(false), log)
	n.Say("   ")
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.queue) != 0 {
		t.Fatalf("blank text should not be queued, queue=%d", len(n.queue))
	}
}
