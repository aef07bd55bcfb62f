package authapi

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// AuthController exposes the auth flows over HTTP. It is thin on purpose:
// parse, call the orchestrator, map the error category to a status code.
type AuthController struct {
	Auther    *Auther
	Registrar *Registrar
	Store     IdentityStore
	Policies  *PolicyRegistry
	Logger    Logger
}

// NewAuthController wires the orchestrators into an HTTP controller
func NewAuthController(auther *Auther, registrar *Registrar, store IdentityStore, policies *PolicyRegistry) *AuthController {
	return &AuthController{
		Auther:    auther,
		Registrar: registrar,
		Store:     store,
		Policies:  policies,
		Logger:    defLogger{},
	}
}

func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// RegisterRoutes mounts the auth endpoints under /api/auth
func (a *AuthController) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	api.Post("/register", a.RegisterPost)
	api.Post("/login", a.LoginPost)
	api.Get("/me", Protected(a.Auther, a.Policies, ""), a.Me)
	api.Post("/roles", Protected(a.Auther, a.Policies, PolicyAdmins), a.CreateRolePost)
	api.Post("/users/:id/roles", Protected(a.Auther, a.Policies, PolicyAdmins), a.GrantRolePost)
}

func (a *AuthController) RegisterPost(ctx *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := ctx.BodyParser(payload); err != nil {
		return a.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse payload"))
	}

	result, err := a.Registrar.Register(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"username": result.User.Username,
		"token":    result.Token,
	})
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := ctx.BodyParser(payload); err != nil {
		return a.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse payload"))
	}

	token, err := a.Auther.Login(ctx.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"username": NormalizeUsername(payload.Username),
		"token":    token,
	})
}

// Me echoes the validated claim set. Useful for clients to introspect a
// token and for smoke-testing deployments.
func (a *AuthController) Me(ctx *fiber.Ctx) error {
	claims, err := ClaimsFromContext(ctx)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"subject": claims.Subject(),
		"claims":  claims.ClaimSet(),
	})
}

func (a *AuthController) CreateRolePost(ctx *fiber.Ctx) error {
	payload := new(CreateRolePayload)
	if err := ctx.BodyParser(payload); err != nil {
		return a.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.renderError(ctx, wrapValidationError(err))
	}

	role, err := a.Store.CreateRole(ctx.UserContext(), payload.Name)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(role)
}

func (a *AuthController) GrantRolePost(ctx *fiber.Ctx) error {
	userID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return a.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user id"))
	}

	payload := new(CreateRolePayload)
	if err := ctx.BodyParser(payload); err != nil {
		return a.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse payload"))
	}

	if err := payload.Validate(); err != nil {
		return a.renderError(ctx, wrapValidationError(err))
	}

	if err := a.Store.GrantRole(ctx.UserContext(), userID, payload.Name); err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// renderError maps the error taxonomy onto HTTP statuses. Auth failures
// keep their generic message; internal and configuration errors are logged
// but never detailed to the caller.
func (a *AuthController) renderError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"
	var metadata map[string]any

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		switch rich.Category {
		case goerrors.CategoryValidation, goerrors.CategoryBadInput, goerrors.CategoryConflict:
			status = fiber.StatusBadRequest
			message = rich.Message
			metadata = rich.Metadata
		case goerrors.CategoryAuth:
			status = fiber.StatusUnauthorized
			message = rich.Message
		case goerrors.CategoryAuthz:
			status = fiber.StatusForbidden
			message = rich.Message
		case goerrors.CategoryNotFound:
			status = fiber.StatusNotFound
			message = "not found"
		}
	} else if repository.IsRecordNotFound(err) {
		status = fiber.StatusNotFound
		message = "not found"
	}

	if status >= fiber.StatusInternalServerError {
		a.Logger.Error("request failed", "error", err)
	} else {
		a.Logger.Debug("request rejected", "status", status, "error", err)
	}

	body := fiber.Map{"error": message}
	if len(metadata) > 0 {
		body["fields"] = metadata
	}

	return ctx.Status(status).JSON(body)
}
