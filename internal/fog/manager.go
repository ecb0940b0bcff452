// Package fog accumulates explored vision into a persistent raster per user and
// scene. Fresh vision is staged as display graphics and periodically committed
// into a render texture, which is saved as a JPEG after a quiet period.
package fog

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-perception/internal/clients/socket"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/render"
	fogexploration "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/visibility"
)

const (
	// DefaultCommitThreshold is the number of staged vision graphics that triggers a commit
	DefaultCommitThreshold = 10
	// MaxTextureSize bounds both sides of the fog raster
	MaxTextureSize = 4096
	// DefaultSaveDelay is the quiet period after a commit before the raster is saved
	DefaultSaveDelay = 3 * time.Second
	// defaultPoolSize is the number of spare render textures kept for reuse
	defaultPoolSize = 2
)

// Config configures a fog Manager for one user on one scene
type Config struct {
	Host        render.Host
	Repository  fogexploration.Repository
	Broadcaster socket.Broadcaster
	Clock       clock.Clock

	SceneID    string
	UserID     string
	Dimensions entities.Dimensions

	CommitThreshold int
	SaveDelay       time.Duration
	MaxTextureSize  int
	PoolSize        int
	// Resolution overrides the computed raster resolution when positive
	Resolution      float64
	// Overlay is an optional texture source drawn over unexplored fog
	Overlay         string
	// Origin tags outbound reset events so the sender can skip its own
	Origin          string
	// OnReset runs after local fog state was torn down by a reset
	OnReset         func()
}

// Validate validates the config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Host == nil {
		vb.RequiredField("Host")
	}
	if cfg.Repository == nil {
		vb.RequiredField("Repository")
	}
	errors.ValidateRequired("SceneID", cfg.SceneID, vb)
	errors.ValidateRequired("UserID", cfg.UserID, vb)
	if cfg.Dimensions.SceneRect.IsEmpty() {
		vb.InvalidField("Dimensions", "scene rect must not be empty")
	}
	if cfg.CommitThreshold < 0 {
		vb.InvalidField("CommitThreshold", "must be non-negative")
	}
	return vb.Build()
}

// LoadOptions identifies who is loading the fog
type LoadOptions struct {
	RequesterID string
	IsGM        bool
}

// RefreshResult reports what one frame did
type RefreshResult struct {
	Explored  bool
	Committed bool
}

// frame is the vision graphic drawn for the current frame
type frame struct {
	obj      *render.Container
	explored bool
}

// Manager owns the fog textures of one user on one scene
type Manager struct {
	mu sync.Mutex

	host        render.Host
	repo        fogexploration.Repository
	broadcaster socket.Broadcaster
	clock       clock.Clock
	onReset     func()
	origin      string

	sceneID    string
	userID     string
	dims       entities.Dimensions
	threshold  int
	saveDelay  time.Duration
	maxSize    int
	overlaySrc string

	resolution float64
	pool       *texturePool

	exploration *Exploration
	revealed    *render.Container
	pending     *render.Container
	sprite      *render.Sprite
	vision      *frame

	overlay      *render.Sprite
	overlayVideo render.VideoSource

	loaded     bool
	updated    bool
	saveAt     time.Time
	degraded   bool
	generation int
}

// New creates a fog manager. Load must complete before frames are committed.
func New(cfg *Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	threshold := cfg.CommitThreshold
	if threshold == 0 {
		threshold = DefaultCommitThreshold
	}
	delay := cfg.SaveDelay
	if delay == 0 {
		delay = DefaultSaveDelay
	}
	maxSize := cfg.MaxTextureSize
	if maxSize <= 0 {
		maxSize = MaxTextureSize
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}

	m := &Manager{
		host:        cfg.Host,
		repo:        cfg.Repository,
		broadcaster: cfg.Broadcaster,
		clock:       c,
		onReset:     cfg.OnReset,
		origin:      cfg.Origin,
		sceneID:     cfg.SceneID,
		userID:      cfg.UserID,
		dims:        cfg.Dimensions,
		threshold:   threshold,
		saveDelay:   delay,
		maxSize:     maxSize,
		overlaySrc:  cfg.Overlay,
		pool:        newTexturePool(cfg.Host, poolSize),
	}
	m.resolution = cfg.Resolution
	if m.resolution <= 0 {
		m.resolution = ConfigureResolution(cfg.Dimensions.SceneRect.Width, cfg.Dimensions.SceneRect.Height, maxSize)
	}
	m.resetLayers()
	return m, nil
}

// resetLayers builds an empty revealed container holding the sprite and the
// pending container
func (m *Manager) resetLayers() {
	m.sprite = render.NewSprite(nil, m.dims.SceneRect)
	m.pending = render.NewContainer()
	m.revealed = render.NewContainer()
	m.revealed.AddChild(m.sprite)
	m.revealed.AddChild(m.pending)
}

// Resolution returns the raster resolution in pixels per scene unit
func (m *Manager) Resolution() float64 {
	return m.resolution
}

// Load retrieves the stored exploration and installs its raster. A missing
// record starts a first exploration. Only the owner or a GM may load.
func (m *Manager) Load(ctx context.Context, opts LoadOptions) error {
	if opts.RequesterID != "" && opts.RequesterID != m.userID && !opts.IsGM {
		return errors.PermissionDenied("cannot load another user's fog exploration").
			WithScene(m.sceneID, m.userID)
	}

	var doc *entities.FogExploration
	out, err := m.repo.Get(ctx, fogexploration.GetInput{SceneID: m.sceneID, UserID: m.userID})
	switch {
	case err == nil:
		doc = out.Exploration
	case errors.IsNotFound(err):
		slog.Debug("no fog exploration stored, starting fresh", "scene_id", m.sceneID, "user_id", m.userID)
	default:
		return errors.Wrap(err, "failed to load fog exploration")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.exploration = NewExploration(doc, m.sceneID, m.userID, m.dims.Size)
	tex, err := m.initialTexture(doc)
	if err != nil {
		m.enterDegraded(err)
	}
	m.setSpriteTexture(tex)
	m.loadOverlay()
	m.loaded = true
	return nil
}

// initialTexture decodes the stored raster, falling back to an empty texture
func (m *Manager) initialTexture(doc *entities.FogExploration) (render.Texture, error) {
	if doc.HasRaster() {
		img, err := DecodeRaster(*doc.Explored)
		if err == nil {
			res := float64(img.Bounds().Dx()) / m.dims.SceneRect.Width
			tex, err := m.host.TextureFromImage(img, res)
			if err == nil {
				return tex, nil
			}
			slog.Warn("failed to install fog raster", "scene_id", m.sceneID, "error", err)
		} else {
			slog.Warn("discarding unreadable fog raster", "scene_id", m.sceneID, "error", err)
		}
	}
	return m.acquire()
}

func (m *Manager) loadOverlay() {
	if m.overlaySrc == "" || m.overlay != nil {
		return
	}
	tex, err := m.host.LoadTexture(m.overlaySrc)
	if err != nil {
		slog.Warn("failed to load fog overlay", "src", m.overlaySrc, "error", err)
		return
	}
	m.overlay = render.NewSprite(tex, m.dims.Rect)
	if video, ok := m.host.VideoSource(tex); ok {
		m.overlayVideo = video
		video.Play()
	}
}

// Refresh runs the per-frame protocol: replace the previous frame's vision
// graphic, record exploration for each vision source, stage the frame when
// anything new was explored and commit once enough frames are staged.
func (m *Manager) Refresh(mask *visibility.Mask, vision []*sources.Source, force bool) (*RefreshResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vision != nil {
		m.vision.obj.Destroy()
		m.vision = nil
	}
	current := &frame{obj: mask.Draw()}
	m.vision = current

	result := &RefreshResult{}
	if !m.loaded {
		return result, nil
	}
	if m.exploration == nil {
		m.exploration = NewExploration(nil, m.sceneID, m.userID, m.dims.Size)
	}
	for _, src := range vision {
		if m.exploration.Explore(src, force) {
			current.explored = true
		}
	}
	if current.explored {
		result.Explored = true
		if !m.degraded {
			m.pending.AddChild(mask.Draw())
		}
	}

	if m.pending.Len() >= m.threshold {
		committed, err := m.commit()
		if err != nil {
			return result, err
		}
		result.Committed = committed
	}
	return result, nil
}

// Commit rasterizes staged vision into a fresh texture
func (m *Manager) Commit() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return false, errors.FailedPrecondition("fog exploration has not been loaded")
	}
	return m.commit()
}

func (m *Manager) commit() (bool, error) {
	if m.degraded || m.pending.Len() == 0 {
		return false, nil
	}

	tex, err := m.acquire()
	if err != nil {
		m.enterDegraded(err)
		return false, nil
	}

	r := m.dims.SceneRect
	tf := &render.Transform{TranslateX: -r.X, TranslateY: -r.Y, Scale: m.resolution}
	if err := m.host.RenderInto(m.revealed, tex, tf); err != nil {
		m.pool.release(tex)
		return false, errors.Wrap(err, "failed to commit fog")
	}

	m.setSpriteTexture(tex)
	for _, child := range m.pending.RemoveChildren() {
		child.Destroy()
	}
	m.updated = true
	m.saveAt = m.clock.Now().Add(m.saveDelay)
	return true, nil
}

// setSpriteTexture points the sprite at tex, recycling or destroying the old one
func (m *Manager) setSpriteTexture(tex render.Texture) {
	if old := m.sprite.Texture(); old != nil && old != tex {
		m.pool.release(old)
	}
	m.sprite.SetTexture(tex)
}

// acquire returns a cleared texture for the scene rect. On allocation failure
// the pool is flushed and allocation retried once.
func (m *Manager) acquire() (render.Texture, error) {
	opts := render.TextureOptions{
		Width:      int(m.dims.SceneRect.Width),
		Height:     int(m.dims.SceneRect.Height),
		Resolution: m.resolution,
	}
	tex, err := m.pool.acquire(opts)
	if err == nil {
		return tex, nil
	}
	slog.Warn("fog texture allocation failed, flushing pool", "scene_id", m.sceneID, "error", err)
	m.pool.flush()
	return m.pool.acquire(opts)
}

func (m *Manager) enterDegraded(err error) {
	if m.degraded {
		return
	}
	m.degraded = true
	slog.Warn("fog exploration disabled: unable to allocate textures",
		"scene_id", m.sceneID,
		"user_id", m.userID,
		"error", errors.WrapWithCode(err, errors.CodeResourceExhausted, "fog texture allocation failed"))
}

// Tick saves the raster once the quiet period after the last commit has passed
func (m *Manager) Tick(ctx context.Context) error {
	m.mu.Lock()
	due := m.updated && !m.saveAt.IsZero() && !m.clock.Now().Before(m.saveAt)
	m.mu.Unlock()
	if !due {
		return nil
	}
	return m.Save(ctx)
}

// Save persists the committed raster and explored positions if anything changed.
// A failed write leaves the manager dirty so the next tick retries.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	if !m.updated || m.exploration == nil {
		m.mu.Unlock()
		return nil
	}
	tex := m.sprite.Texture()
	if tex == nil || tex.Destroyed() {
		m.mu.Unlock()
		return nil
	}
	img, err := m.host.Extract(tex)
	if err != nil {
		m.mu.Unlock()
		return errors.Wrap(err, "failed to extract fog raster")
	}
	doc := m.exploration.Document()
	generation := m.generation
	m.updated = false
	m.saveAt = time.Time{}
	m.mu.Unlock()

	dataURL, _, err := EncodeRaster(img, m.maxSize)
	if err == nil {
		doc.Explored = &dataURL
		doc, err = m.persist(ctx, doc)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if generation != m.generation {
		slog.Debug("discarding fog save superseded by reset", "scene_id", m.sceneID)
		return nil
	}
	if err != nil {
		m.updated = true
		m.saveAt = m.clock.Now().Add(m.saveDelay)
		slog.Error("failed to save fog exploration",
			"scene_id", m.sceneID,
			"user_id", m.userID,
			"transient", errors.IsTransient(err),
			"error", err)
		return err
	}
	if m.exploration != nil {
		m.exploration.doc.ID = doc.ID
		m.exploration.doc.Timestamp = doc.Timestamp
	}
	return nil
}

func (m *Manager) persist(ctx context.Context, doc *entities.FogExploration) (*entities.FogExploration, error) {
	if doc.ID == "" {
		out, err := m.repo.Create(ctx, fogexploration.CreateInput{Exploration: doc})
		if err == nil {
			return out.Exploration, nil
		}
		if !errors.IsAlreadyExists(err) {
			return nil, err
		}
	}
	out, err := m.repo.Update(ctx, fogexploration.UpdateInput{Exploration: doc})
	if err != nil {
		return nil, err
	}
	return out.Exploration, nil
}

// Reset deletes every user's exploration of the scene, tells other clients to
// reset and tears down local state
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	m.updated = false
	m.saveAt = time.Time{}
	m.generation++
	m.mu.Unlock()

	if _, err := m.repo.DeleteByScene(ctx, fogexploration.DeleteBySceneInput{SceneID: m.sceneID}); err != nil {
		return errors.Wrap(err, "failed to reset fog exploration")
	}
	if m.broadcaster != nil {
		err := m.broadcaster.Emit(ctx, socket.Event{Type: socket.EventResetFog, SceneID: m.sceneID, Origin: m.origin})
		if err != nil {
			slog.Warn("failed to broadcast fog reset", "scene_id", m.sceneID, "error", err)
		}
	}
	m.HandleReset()
	return nil
}

// HandleReset drops the exploration, every staged graphic and every texture.
// The next explored frame starts from an empty record.
func (m *Manager) HandleReset() {
	m.mu.Lock()
	m.teardown()
	m.exploration = nil
	m.updated = false
	m.saveAt = time.Time{}
	m.degraded = false
	m.generation++
	onReset := m.onReset
	m.mu.Unlock()

	slog.Info("fog exploration reset", "scene_id", m.sceneID, "user_id", m.userID)
	if onReset != nil {
		onReset()
	}
}

func (m *Manager) teardown() {
	if tex := m.sprite.Texture(); tex != nil {
		m.host.DestroyTexture(tex)
	}
	m.sprite.SetTexture(nil)
	m.pool.flush()
	m.revealed.Destroy()
	if m.vision != nil {
		m.vision.obj.Destroy()
		m.vision = nil
	}
	m.resetLayers()
}

// Close pauses the overlay and releases every texture
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown()
	if m.overlayVideo != nil {
		m.overlayVideo.Pause()
	}
	if m.overlay != nil {
		if tex := m.overlay.Texture(); tex != nil {
			m.host.DestroyTexture(tex)
		}
		m.overlay = nil
		m.overlayVideo = nil
	}
	m.loaded = false
}

// Snapshot describes the manager state for inspection
type Snapshot struct {
	Loaded       bool
	Updated      bool
	Degraded     bool
	Pending      int
	Pooled       int
	Positions    map[string]entities.FogPosition
	Exploration  *entities.FogExploration
	Texture      render.Texture
	SaveAt       time.Time
	OverlayVideo render.VideoSource
}

// Snapshot returns the current state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		Loaded:       m.loaded,
		Updated:      m.updated,
		Degraded:     m.degraded,
		Pending:      m.pending.Len(),
		Pooled:       m.pool.len(),
		Texture:      m.sprite.Texture(),
		SaveAt:       m.saveAt,
		OverlayVideo: m.overlayVideo,
	}
	if m.exploration != nil {
		s.Positions = m.exploration.Positions()
		s.Exploration = m.exploration.Document()
	}
	return s
}

// Raster extracts the committed fog raster
func (m *Manager) Raster() (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tex := m.sprite.Texture()
	if tex == nil || tex.Destroyed() {
		return nil, errors.NotFound("no fog raster committed").WithScene(m.sceneID, m.userID)
	}
	return m.host.Extract(tex)
}
