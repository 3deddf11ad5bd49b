package player

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/youpure/server/pkg/ytvideodata"
)

// DefaultSkipStep is the distance in seconds covered by one skip.
const DefaultSkipStep = 5.0

type Phase string

const (
	// PhaseIdle: no video loaded.
	PhaseIdle Phase = "idle"
	// PhaseAwaiting: a video id is loaded but the widget has not signalled ready.
	PhaseAwaiting Phase = "awaiting"
	// PhaseBound: the widget is ready and bound to the playback controller.
	PhaseBound Phase = "bound"
)

// TitleFetcher resolves a display title. It reports false when no title is
// available for any reason.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, videoID string) (string, bool)
}

// Clipboard gives access to the text the user last copied.
type Clipboard interface {
	ReadText(ctx context.Context) (string, error)
}

type VideoReference struct {
	RawInput string  `json:"raw_input"`
	VideoID  string  `json:"video_id"`
	Title    *string `json:"title"`
}

type Snapshot struct {
	Progress
	IsPlaying bool `json:"is_playing"`
	IsLoading bool `json:"is_loading"`
}

// View is a consistent copy of the machine state.
type View struct {
	Phase       Phase          `json:"phase"`
	IsReady     bool           `json:"is_ready"`
	Video       VideoReference `json:"video"`
	Snapshot    Snapshot       `json:"snapshot"`
	PlayerState State          `json:"player_state"`
	Embed       *EmbedOptions  `json:"embed,omitempty"`
}

type Options struct {
	Config       Config
	PollInterval time.Duration
	SkipStep     float64
	Fetcher      TitleFetcher
	// Observer receives a View after every change. It is called with the
	// machine locked and must not call back into the Machine.
	Observer func(View)
	Logger   *slog.Logger
}

// Machine orchestrates one player: it owns the loaded video, the binding to
// the widget and the progress readout.
type Machine struct {
	cfg      Config
	skipStep float64
	fetcher  TitleFetcher
	observer func(View)
	logger   *slog.Logger
	playback *Controller
	tracker  *Tracker
	fetches  sync.WaitGroup

	// ops serialises transitions. Tracker calls are made holding ops but not
	// mu, since the polling loop publishes under mu.
	ops sync.Mutex

	mu       sync.Mutex
	phase    Phase
	video    VideoReference
	snapshot Snapshot
	state    State
	shutdown bool
}

func New(opts *Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	skipStep := opts.SkipStep
	if skipStep <= 0 {
		skipStep = DefaultSkipStep
	}

	m := Machine{
		cfg:      opts.Config,
		skipStep: skipStep,
		fetcher:  opts.Fetcher,
		observer: opts.Observer,
		logger:   logger,
		playback: NewController(logger),
		phase:    PhaseIdle,
		state:    StateUnstarted,
	}
	m.tracker = NewTracker(opts.PollInterval, m.onProgress)

	return &m
}

// SetInput loads the video named by raw. Input without a video id is ignored
// and false is returned.
func (m *Machine) SetInput(ctx context.Context, raw string) bool {
	videoID, ok := ytvideodata.ExtractVideoID(raw)
	if !ok {
		m.logger.DebugContext(ctx, "input has no video id")
		return false
	}

	m.ops.Lock()
	defer m.ops.Unlock()

	loaded, unbound := m.setInput(ctx, raw, videoID)
	if unbound {
		m.tracker.Stop()
	}
	return loaded
}

func (m *Machine) setInput(ctx context.Context, raw, videoID string) (loaded, unbound bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return false, false
	}

	if m.phase != PhaseIdle && m.video.VideoID == videoID {
		m.video.RawInput = raw
		if m.video.Title == nil {
			m.fetchTitleLocked(ctx, videoID)
		}
		m.notifyLocked()
		return true, false
	}

	m.playback.Release()
	m.phase = PhaseAwaiting
	m.video = VideoReference{RawInput: raw, VideoID: videoID}
	m.snapshot = Snapshot{}
	m.state = StateUnstarted
	m.logger.InfoContext(ctx, "video loaded", "video_id", videoID)

	m.fetchTitleLocked(ctx, videoID)
	m.notifyLocked()
	return true, true
}

// Ready binds the widget that signalled ready for the loaded video.
func (m *Machine) Ready(ctx context.Context, b Binding) bool {
	if b == nil {
		return false
	}

	m.ops.Lock()
	defer m.ops.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return false
	}
	if m.phase != PhaseAwaiting {
		m.logger.WarnContext(ctx, "ignoring ready signal", "phase", m.phase)
		return false
	}

	m.phase = PhaseBound
	m.playback.Bind(ctx, b)
	m.logger.InfoContext(ctx, "player bound", "video_id", m.video.VideoID)

	m.notifyLocked()
	return true
}

// StateChanged applies a state code emitted by the bound widget.
func (m *Machine) StateChanged(ctx context.Context, state State) bool {
	m.ops.Lock()
	defer m.ops.Unlock()

	applied, track := m.stateChanged(ctx, state)
	if !applied {
		return false
	}

	if track != nil {
		m.tracker.Start(track)
	} else {
		m.tracker.Stop()
	}
	return true
}

// stateChanged returns the binding to track, nil when tracking must stop.
func (m *Machine) stateChanged(ctx context.Context, state State) (bool, Binding) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown || m.phase != PhaseBound {
		m.logger.DebugContext(ctx, "ignoring state change", "phase", m.phase, "state", state)
		return false, nil
	}

	m.state = state
	m.snapshot.IsPlaying = state == StatePlaying
	m.snapshot.IsLoading = state == StateBuffering

	var track Binding
	if m.snapshot.IsPlaying {
		track = m.playback.Binding()
	}

	m.notifyLocked()
	return true, track
}

// Close unloads the video and returns to idle.
func (m *Machine) Close(ctx context.Context) {
	m.ops.Lock()
	defer m.ops.Unlock()

	m.close(ctx, false)
	m.tracker.Stop()
}

// Shutdown closes the machine for good: later transitions are ignored and no
// new title lookups start, so Wait may be called afterwards.
func (m *Machine) Shutdown(ctx context.Context) {
	m.ops.Lock()
	defer m.ops.Unlock()

	m.close(ctx, true)
	m.tracker.Stop()
}

func (m *Machine) close(ctx context.Context, final bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return
	}

	wasIdle := m.phase == PhaseIdle
	m.playback.Release()
	m.phase = PhaseIdle
	m.video = VideoReference{}
	m.snapshot = Snapshot{}
	m.state = StateUnstarted
	m.shutdown = final

	if !wasIdle {
		m.logger.InfoContext(ctx, "player closed")
	}
	m.notifyLocked()
}

func (m *Machine) TogglePlayPause(ctx context.Context) {
	m.playback.TogglePlayPause(ctx)
}

func (m *Machine) SeekToFraction(ctx context.Context, fraction float64) {
	m.playback.SeekToFraction(ctx, fraction)
}

func (m *Machine) Skip(ctx context.Context, delta float64) {
	m.playback.Skip(ctx, delta)
}

func (m *Machine) SkipBackward(ctx context.Context) {
	m.playback.Skip(ctx, -m.skipStep)
}

func (m *Machine) SkipForward(ctx context.Context) {
	m.playback.Skip(ctx, m.skipStep)
}

// FocusInput loads the video on the clipboard, if there is one. A denied or
// failed clipboard read is not an error.
func (m *Machine) FocusInput(ctx context.Context, clipboard Clipboard) bool {
	if clipboard == nil {
		return false
	}

	text, err := clipboard.ReadText(ctx)
	if err != nil {
		m.logger.DebugContext(ctx, "clipboard unavailable", "error", err)
		return false
	}

	if _, ok := ytvideodata.ExtractVideoID(text); !ok {
		return false
	}

	return m.SetInput(ctx, text)
}

// HandleKey runs the shortcut bound to key and reports whether there was one.
func (m *Machine) HandleKey(ctx context.Context, key string) bool {
	switch key {
	case "Escape":
		m.Close(ctx)
	case "Enter":
		raw := m.View().Video.RawInput
		if raw == "" {
			return false
		}
		m.SetInput(ctx, raw)
	case " ", "k":
		m.TogglePlayPause(ctx)
	case "ArrowLeft", "j":
		m.SkipBackward(ctx)
	case "ArrowRight", "l":
		m.SkipForward(ctx)
	default:
		return false
	}

	return true
}

func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.viewLocked()
}

// Wait blocks until every title lookup started so far has finished. It must
// not race with transitions that start lookups; call it after Shutdown.
func (m *Machine) Wait() {
	m.fetches.Wait()
}

func (m *Machine) onProgress(b Binding, p Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseBound || !m.snapshot.IsPlaying || m.playback.Binding() != b {
		return
	}

	if m.snapshot.Progress == p {
		return
	}

	m.snapshot.Progress = p
	m.notifyLocked()
}

func (m *Machine) fetchTitleLocked(ctx context.Context, videoID string) {
	if m.fetcher == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	m.fetches.Add(1)
	go func() {
		defer m.fetches.Done()

		title, ok := m.fetcher.FetchTitle(ctx, videoID)
		m.applyTitle(ctx, videoID, title, ok)
	}()
}

func (m *Machine) applyTitle(ctx context.Context, videoID, title string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.video.VideoID != videoID {
		m.logger.DebugContext(ctx, "discarding stale title", "video_id", videoID, "current_video_id", m.video.VideoID)
		return
	}
	if !ok {
		return
	}

	m.video.Title = &title
	m.notifyLocked()
}

func (m *Machine) viewLocked() View {
	v := View{
		Phase:       m.phase,
		IsReady:     m.phase != PhaseIdle,
		Video:       m.video,
		Snapshot:    m.snapshot,
		PlayerState: m.state,
	}
	if m.video.VideoID != "" {
		embed := m.cfg.EmbedOptions(m.video.VideoID)
		v.Embed = &embed
	}

	return v
}

func (m *Machine) notifyLocked() {
	if m.observer != nil {
		m.observer(m.viewLocked())
	}
}
