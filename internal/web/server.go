// Package web serves the pixel shuffle browser UI and its JSON API.
// Uploaded images are sampled into block grids held in an in-memory
// session store; build and shake operations swap immutable grid values.
package web

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math/rand/v2"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	pixelshuffle "github.com/hellolucient/pixel-shuffle"
	"github.com/hellolucient/pixel-shuffle/imageutil"
)

// DefaultBlockSize is the sampling block size used when neither the
// server configuration nor the upload request carries one.
const DefaultBlockSize = 25

const (
	defaultGIFFrames = 8
	defaultGIFDelay  = 10
)

// Server wires the session store to the HTTP surface.
type Server struct {
	app       *fiber.App
	store     *Store
	blockSize int
	maxDim    int
	rng       *rand.Rand
}

type Option func(*Server)

// WithBlockSize sets the default sampling block size for uploads that
// do not carry one.
func WithBlockSize(n int) Option {
	return func(s *Server) { s.blockSize = n }
}

// WithMaxDimension caps uploaded images to maxDim pixels on their
// longer side before sampling. Zero disables the cap.
func WithMaxDimension(n int) Option {
	return func(s *Server) { s.maxDim = n }
}

// WithRandom sets the random source used for shakes. Nil keeps the
// package-default source.
func WithRandom(rng *rand.Rand) Option {
	return func(s *Server) { s.rng = rng }
}

func New(opts ...Option) *Server {
	s := &Server{
		store:     NewStore(),
		blockSize: DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Post("/images", s.handleUpload)
	api.Get("/images", s.handleList)
	api.Delete("/images/:id", s.handleDelete)
	api.Post("/images/:id/build", s.handleBuild)
	api.Post("/images/:id/shake", s.handleShake)
	api.Get("/images/:id/frame.png", s.handleFramePNG)
	api.Get("/images/:id/frame.webp", s.handleFrameWebP)
	api.Get("/images/:id/grid", s.handleGrid)
	api.Get("/images/:id/grid.html", s.handleGridHTML)
	api.Get("/images/:id/shake.gif", s.handleShakeGIF)

	s.app = app
	return s
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until the listener fails.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// imageSummary is the JSON shape of a session in list and mutation
// responses.
type imageSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	BlockSize int    `json:"block_size"`
	Cols      int    `json:"cols"`
	Rows      int    `json:"rows"`
	Cells     int    `json:"cells"`
	Built     bool   `json:"built"`
	Shakes    int    `json:"shakes"`
}

func summarize(sess Session) imageSummary {
	g := sess.Current
	return imageSummary{
		ID:        sess.ID,
		Name:      sess.Name,
		Width:     g.PixelWidth(),
		Height:    g.PixelHeight(),
		BlockSize: sess.BlockSize,
		Cols:      g.Cols(),
		Rows:      g.Rows(),
		Cells:     g.Len(),
		Built:     sess.Built,
		Shakes:    sess.Shakes,
	}
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString(indexPage)
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
	}

	blockSize := s.blockSize
	if v := c.FormValue("block_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid block_size"})
		}
		blockSize = n
	}
	maxDim := s.maxDim
	if v := c.FormValue("max_dim"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid max_dim"})
		}
		maxDim = n
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read upload"})
	}
	defer file.Close()

	img, err := imageutil.DecodeImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported or corrupt image"})
	}

	grid, err := pixelshuffle.Sample(imageutil.CapDimensions(img, maxDim), blockSize)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sess := s.store.Add(fileHeader.Filename, grid)
	return c.Status(fiber.StatusCreated).JSON(summarize(sess))
}

func (s *Server) handleList(c *fiber.Ctx) error {
	sessions := s.store.List()
	summaries := make([]imageSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, summarize(sess))
	}
	return c.JSON(summaries)
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	if err := s.store.Delete(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}
	return c.JSON(fiber.Map{"message": "image deleted"})
}

func (s *Server) handleBuild(c *fiber.Ctx) error {
	sess, err := s.store.Build(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}
	return c.JSON(summarize(sess))
}

func (s *Server) handleShake(c *fiber.Ctx) error {
	sess, err := s.store.Shake(c.Params("id"), s.rng)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	case errors.Is(err, ErrNotBuilt):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "build the image first"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summarize(sess))
}

func (s *Server) handleFramePNG(c *fiber.Ctx) error {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, pixelshuffle.Reconstruct(sess.Current)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func (s *Server) handleFrameWebP(c *fiber.Ctx) error {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}

	var buf bytes.Buffer
	if err := imageutil.EncodeWebP(&buf, pixelshuffle.Reconstruct(sess.Current)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, "image/webp")
	return c.Send(buf.Bytes())
}

func (s *Server) handleGrid(c *fiber.Ctx) error {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}
	return c.JSON(sess.Current)
}

func (s *Server) handleGridHTML(c *fiber.Ctx) error {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString(buildGridHTML(sess.Current, c.QueryBool("animate")))
}

// handleShakeGIF renders a burst of hypothetical shakes as an animated
// GIF without touching the stored session.
func (s *Server) handleShakeGIF(c *fiber.Ctx) error {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}

	frames := clamp(c.QueryInt("frames", defaultGIFFrames), 2, 30)
	delay := clamp(c.QueryInt("delay", defaultGIFDelay), 2, 50)

	imgs := make([]image.Image, 0, frames)
	for i := 0; i < frames; i++ {
		shuffled, err := pixelshuffle.Shuffle(sess.Current, s.rng)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		imgs = append(imgs, pixelshuffle.Reconstruct(shuffled))
	}

	var buf bytes.Buffer
	if err := imageutil.EncodeAnimatedGIF(&buf, imgs, delay); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, "image/gif")
	return c.Send(buf.Bytes())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
