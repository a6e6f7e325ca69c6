package screen

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"coin-admin/internal/backend"
	"coin-admin/internal/common/models"
	"coin-admin/internal/common/validation"
	"coin-admin/internal/features/access"
	"coin-admin/internal/features/listing"
	"coin-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ScreenController struct {
	Service ScreenService
	Logger  *zap.Logger
}

func NewScreenController(service ScreenService, logger *zap.Logger) *ScreenController {
	return &ScreenController{
		Service: service,
		Logger:  logger,
	}
}

// List serves GET /<screen>. A page query parameter moves the pagination;
// while a search is committed it leaves the fetched result unchanged.
func (ctrl *ScreenController) List(def *Definition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lists := ctrl.Service.Lists(middleware.CurrentSessionID(c), def)
		if page := c.QueryInt("page", 0); page > 0 {
			lists.SetPage(page)
		}
		return ctrl.load(c, def, lists)
	}
}

// Search serves POST /<screen>/search: commit the term and fetch.
func (ctrl *ScreenController) Search(def *Definition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form SearchForm
		if err := parseForm(c, &form); err != nil {
			return formError(c, err)
		}
		lists := ctrl.Service.Lists(middleware.CurrentSessionID(c), def)
		lists.Search(form.Term)
		return ctrl.load(c, def, lists)
	}
}

// SearchDraft serves PATCH /<screen>/search: edit the draft term without
// fetching.
func (ctrl *ScreenController) SearchDraft(def *Definition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form SearchForm
		if err := parseForm(c, &form); err != nil {
			return formError(c, err)
		}
		lists := ctrl.Service.Lists(middleware.CurrentSessionID(c), def)
		lists.SetSearchTerm(form.Term)
		return c.JSON(lists.Current())
	}
}

// ClearSearch serves DELETE /<screen>/search.
func (ctrl *ScreenController) ClearSearch(def *Definition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lists := ctrl.Service.Lists(middleware.CurrentSessionID(c), def)
		lists.ClearSearch()
		return ctrl.load(c, def, lists)
	}
}

// Export serves GET /<screen>/export as an XLSX of the current page.
func (ctrl *ScreenController) Export(def *Definition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lists := ctrl.Service.Lists(middleware.CurrentSessionID(c), def)
		page := lists.Current()
		if page.Loading {
			var err error
			if page, err = lists.Load(c.UserContext()); err != nil {
				return ctrl.backendError(c, def, err)
			}
		}

		data, err := listing.ExportXLSX(page, def.Columns, def.Title)
		if err != nil {
			ctrl.Logger.Error("Failed to export list", zap.String("screen", def.Name), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to export",
			})
		}

		c.Attachment(def.Name + ".xlsx")
		c.Set(fiber.HeaderContentType, xlsxContentType)
		return c.Send(data)
	}
}

// CreateScreen serves GET /<screen>/<segment>.
func (ctrl *ScreenController) CreateScreen(def *Definition, create Create) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := def.Describe(create.Segment)
		if _, ok := create.Form().(*RoleForm); ok {
			body["modules"] = roleModules()
		}
		return c.JSON(body)
	}
}

// Create serves POST /<screen>/<segment>.
func (ctrl *ScreenController) Create(def *Definition, create Create) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form := create.Form()
		if err := parseForm(c, form); err != nil {
			return formError(c, err)
		}
		upload, err := readUpload(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid upload"})
		}

		sid := middleware.CurrentSessionID(c)
		data, err := ctrl.Service.Send(c.UserContext(), sid, fiber.MethodPost, create.Endpoint, form, upload, fiber.StatusCreated)
		if err != nil {
			return ctrl.backendError(c, def, err)
		}
		ctrl.invalidate(sid, def)
		ctrl.Service.Notify(sid, models.Notice{Level: models.NoticeSuccess, Screen: def.Name, Message: def.Title + " created"})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
	}
}

// Document serves GET /<screen>/view/:id and /<screen>/edit/:id.
func (ctrl *ScreenController) Document(def *Definition, view, suffix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := def.Endpoint + "/" + url.PathEscape(c.Params("id")) + suffix
		data, err := ctrl.Service.Fetch(c.UserContext(), middleware.CurrentSessionID(c), path)
		if err != nil {
			return ctrl.backendError(c, def, err)
		}
		body := def.Describe(view)
		body["id"] = c.Params("id")
		body["data"] = data
		return c.JSON(body)
	}
}

// Update serves PUT /<screen>/edit/:id.
func (ctrl *ScreenController) Update(def *Definition) fiber.Handler {
	return ctrl.put(def, func(c *fiber.Ctx) string {
		return def.Endpoint + "/" + url.PathEscape(c.Params("id"))
	}, def.Edit, "updated")
}

// Decide serves POST /users/kyc/:id.
func (ctrl *ScreenController) Decide(def *Definition) fiber.Handler {
	return ctrl.put(def, func(c *fiber.Ctx) string {
		return def.Endpoint + "/" + url.PathEscape(c.Params("id")) + "/kyc"
	}, func() Form { return &DecisionForm{} }, "KYC reviewed")
}

// Single serves GET /<screen> for screens showing one document.
func (ctrl *ScreenController) Single(def *Definition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := ctrl.Service.Fetch(c.UserContext(), middleware.CurrentSessionID(c), def.Endpoint)
		if err != nil {
			return ctrl.backendError(c, def, err)
		}
		body := def.Describe("view")
		body["screen"] = def.Name
		body["data"] = data
		return c.JSON(body)
	}
}

// SaveSingle serves PUT /<screen> for screens showing one document.
func (ctrl *ScreenController) SaveSingle(def *Definition) fiber.Handler {
	return ctrl.put(def, func(c *fiber.Ctx) string { return def.Endpoint }, def.Edit, "saved")
}

// Act serves POST /<screen>/:id/<action>.
func (ctrl *ScreenController) Act(def *Definition, action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form := action.Form()
		if err := parseForm(c, form); err != nil {
			return formError(c, err)
		}

		sid := middleware.CurrentSessionID(c)
		page, err := ctrl.Service.Mutate(c.UserContext(), sid, def, action, c.Params("id"), form)
		if err != nil {
			if errors.Is(err, listing.ErrRowNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			ctrl.notifyFailure(sid, def, err)
			return c.Status(backendStatus(err)).JSON(fiber.Map{
				"error": backend.Message(err),
				"page":  ctrl.Service.Lists(sid, def).Current(),
			})
		}
		return c.JSON(page)
	}
}

func (ctrl *ScreenController) put(def *Definition, path func(*fiber.Ctx) string, newForm func() Form, done string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form := newForm()
		if err := parseForm(c, form); err != nil {
			return formError(c, err)
		}
		upload, err := readUpload(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid upload"})
		}

		sid := middleware.CurrentSessionID(c)
		data, err := ctrl.Service.Send(c.UserContext(), sid, fiber.MethodPut, path(c), form, upload, 0)
		if err != nil {
			return ctrl.backendError(c, def, err)
		}
		ctrl.invalidate(sid, def)
		ctrl.Service.Notify(sid, models.Notice{Level: models.NoticeSuccess, Screen: def.Name, Message: def.Title + " " + done})
		return c.JSON(fiber.Map{"data": data})
	}
}

func (ctrl *ScreenController) load(c *fiber.Ctx, def *Definition, lists *listing.Controller) error {
	page, err := lists.Load(c.UserContext())
	if err != nil {
		return ctrl.backendError(c, def, err)
	}
	return c.JSON(page)
}

func (ctrl *ScreenController) invalidate(sid string, def *Definition) {
	if def.List {
		ctrl.Service.Lists(sid, def).Invalidate()
	}
}

func (ctrl *ScreenController) backendError(c *fiber.Ctx, def *Definition, err error) error {
	ctrl.notifyFailure(middleware.CurrentSessionID(c), def, err)
	return c.Status(backendStatus(err)).JSON(fiber.Map{
		"error": backend.Message(err),
	})
}

func (ctrl *ScreenController) notifyFailure(sid string, def *Definition, err error) {
	ctrl.Logger.Debug("backend call failed", zap.String("screen", def.Name), zap.Error(err))
	ctrl.Service.Notify(sid, models.Notice{
		Level:   models.NoticeError,
		Screen:  def.Name,
		Message: backend.Message(err),
	})
}

func backendStatus(err error) int {
	if errors.Is(err, backend.ErrUnauthorized) {
		return fiber.StatusUnauthorized
	}
	return fiber.StatusBadGateway
}

// parseForm decodes the body into form and validates it. Invalid forms are
// never sent to the backend.
func parseForm(c *fiber.Ctx, form any) error {
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return validation.Struct(form)
}

func formError(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verrs,
		})
	}
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// readUpload collects the multipart parts of the request, or nil when the
// body is not multipart.
func readUpload(c *fiber.Ctx) (*Upload, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	upload := &Upload{Fields: make(map[string]string, len(mf.Value))}
	for k, v := range mf.Value {
		if len(v) > 0 {
			upload.Fields[k] = v[0]
		}
	}
	for field, headers := range mf.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, err
			}
			upload.Files = append(upload.Files, backend.File{Field: field, Name: fh.Filename, Content: content})
		}
	}
	return upload, nil
}

// roleModules lists the modules a role can be granted.
func roleModules() []access.Module {
	modules := []access.Module{access.Dashboard}
	modules = append(modules, access.BlockableModules...)
	return append(modules, access.CMS, access.Settings, access.UserRoles)
}
