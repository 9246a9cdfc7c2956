package http

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ntu-info/05-sununyunun/internal/dissociate"
	"github.com/ntu-info/05-sununyunun/internal/metrics"
	"github.com/ntu-info/05-sununyunun/internal/store"
)

// termResultLimit caps the joined term-mode result. The difference is
// computed over the full resolved sets first; only the reported list is
// truncated.
const termResultLimit = 50

const invalidCoordinateMessage = "Invalid coordinate format. Use x_y_z with underscores."

// DataStore is what the handlers need from the backing store: scoped
// schema-bound transactions plus the diagnostic probe.
type DataStore interface {
	WithTx(ctx context.Context, fn func(q store.Querier) error) error
	Diagnose(ctx context.Context) *store.DiagnosticReport
}

type Handler struct {
	store DataStore
	log   *zap.Logger
}

func NewHandler(st DataStore, log *zap.Logger) *Handler {
	return &Handler{store: st, log: log}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.Health)
	app.Get("/img", h.Image)
	app.Get("/test_db", h.TestDB)
	app.Get("/terms/:term/studies", h.StudiesByTerm)
	app.Get("/locations/:coords/studies", h.StudiesByLocation)
	app.Get("/dissociate/terms/:term_a/:term_b", h.DissociateTerms)
	app.Get("/dissociate/locations/:coords_a/:coords_b", h.DissociateLocations)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString("<p>Server working!</p>")
}

func (h *Handler) Image(c *fiber.Ctx) error {
	return c.SendFile("./static/amygdala.gif")
}

func (h *Handler) TestDB(c *fiber.Ctx) error {
	report := h.store.Diagnose(c.Context())
	status := fiber.StatusOK
	if !report.OK {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(report)
}

func (h *Handler) StudiesByTerm(c *fiber.Ctx) error {
	term := pathParam(c, "term")

	var resp TermStudiesResponse
	err := h.store.WithTx(c.Context(), func(q store.Querier) error {
		ids, err := q.StudiesByTerm(c.Context(), term)
		if err != nil {
			return err
		}
		titles, err := q.Titles(c.Context(), ids)
		if err != nil {
			return err
		}
		resp = TermStudiesResponse{Term: term, Count: len(ids), Studies: buildRefs(ids, titles)}
		return nil
	})
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(resp)
}

func (h *Handler) StudiesByLocation(c *fiber.Ctx) error {
	coord, err := dissociate.ParseCoordinate(pathParam(c, "coords"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": invalidCoordinateMessage})
	}

	var resp LocationStudiesResponse
	err = h.store.WithTx(c.Context(), func(q store.Querier) error {
		ids, err := q.StudiesAtLocation(c.Context(), coord)
		if err != nil {
			return err
		}
		titles, err := q.Titles(c.Context(), ids)
		if err != nil {
			return err
		}
		resp = LocationStudiesResponse{Coords: coord.Slice(), Count: len(ids), Studies: buildRefs(ids, titles)}
		return nil
	})
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(resp)
}

// DissociateTerms answers "studies that mention term_a but not term_b".
// One direction only; swap the terms for the other.
func (h *Handler) DissociateTerms(c *fiber.Ctx) error {
	metrics.TermDissociations.Inc()
	start := time.Now()
	defer func() { metrics.QueryDuration.Observe(time.Since(start).Seconds()) }()

	termA := pathParam(c, "term_a")
	termB := pathParam(c, "term_b")

	var resp TermDissociationResponse
	err := h.store.WithTx(c.Context(), func(q store.Querier) error {
		setA, err := q.StudiesByTerm(c.Context(), termA)
		if err != nil {
			return err
		}
		setB, err := q.StudiesByTerm(c.Context(), termB)
		if err != nil {
			return err
		}

		diff := dissociate.Difference(setA, setB)
		if len(diff) > termResultLimit {
			diff = diff[:termResultLimit]
		}

		titles, err := q.Titles(c.Context(), diff)
		if err != nil {
			return err
		}
		resp = TermDissociationResponse{
			TermA:   termA,
			TermB:   termB,
			Count:   len(diff),
			Studies: buildRefs(diff, titles),
		}
		return nil
	})
	if err != nil {
		return h.storeError(c, err)
	}
	return negotiate(c, termDissociationTmpl, resp)
}

// DissociateLocations answers both directions: studies reporting
// coordinate A but not B, and B but not A.
func (h *Handler) DissociateLocations(c *fiber.Ctx) error {
	coordA, errA := dissociate.ParseCoordinate(pathParam(c, "coords_a"))
	coordB, errB := dissociate.ParseCoordinate(pathParam(c, "coords_b"))
	if errA != nil || errB != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": invalidCoordinateMessage})
	}

	metrics.LocationDissociations.Inc()
	start := time.Now()
	defer func() { metrics.QueryDuration.Observe(time.Since(start).Seconds()) }()

	var resp LocationDissociationResponse
	err := h.store.WithTx(c.Context(), func(q store.Querier) error {
		setA, err := q.StudiesAtLocation(c.Context(), coordA)
		if err != nil {
			return err
		}
		setB, err := q.StudiesAtLocation(c.Context(), coordB)
		if err != nil {
			return err
		}

		aMinusB, bMinusA := dissociate.Split(setA, setB)
		titles, err := q.Titles(c.Context(), dissociate.Union(aMinusB, bMinusA))
		if err != nil {
			return err
		}
		resp = LocationDissociationResponse{
			CoordsA: coordA.Slice(),
			CoordsB: coordB.Slice(),
			AMinusB: buildRefs(aMinusB, titles),
			BMinusA: buildRefs(bMinusA, titles),
		}
		return nil
	})
	if err != nil {
		return h.storeError(c, err)
	}
	return negotiate(c, locationDissociationTmpl, resp)
}

func (h *Handler) storeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	metrics.StoreErrors.Inc()
	h.log.Error("store query failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func buildRefs(ids []dissociate.StudyID, titles map[dissociate.StudyID]*string) []StudyRef {
	refs := make([]StudyRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, StudyRef{StudyID: id, Title: titles[id]})
	}
	return refs
}

// pathParam returns a route parameter with percent-encoding undone, so
// terms like "default%20mode" arrive as typed.
func pathParam(c *fiber.Ctx, name string) string {
	v := c.Params(name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
