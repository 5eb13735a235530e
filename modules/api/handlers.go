package api

import (
	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/notification"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	var api fiber.Router = app
	if m.config.BasePath != "" {
		api = app.Group(m.config.BasePath)
	}
	authed := AuthMiddleware(m.auth)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", m.limited(m.register)...)
	authRoutes.Post("/login", m.limited(m.login)...)
	authRoutes.Get("/me", authed, m.me)
	authRoutes.Post("/logout", authed, m.logout)

	tasks := api.Group("/tasks", authed)
	tasks.Post("/", m.createTask)
	tasks.Get("/", m.listTasks)
	tasks.Get("/:id", m.getTask)
	tasks.Patch("/:id", m.updateTask)
	tasks.Patch("/:id/toggle", m.toggleTask)
	tasks.Delete("/:id", m.deleteTask)

	api.Get("/activity", authed, m.listActivity)

	app.Use(func(*fiber.Ctx) error {
		return errRouteNotFound
	})
}

// limited prefixes h with the rate limiter when one is configured.
func (m *APIModule) limited(h fiber.Handler) []fiber.Handler {
	if m.limiter == nil {
		return []fiber.Handler{h}
	}
	return []fiber.Handler{m.limiter, h}
}

// healthHandler handles GET /health. Module checks run concurrently.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	resp := HealthResponse{Status: "ok"}
	statuses := make([]mono.HealthStatus, len(m.checks))

	g, ctx := errgroup.WithContext(c.UserContext())
	for i, hc := range m.checks {
		g.Go(func() error {
			statuses[i] = hc.module.Health(ctx)
			return nil
		})
	}
	_ = g.Wait()

	if len(m.checks) > 0 {
		resp.Modules = make(map[string]ModuleHealth, len(m.checks))
	}
	for i, hc := range m.checks {
		resp.Modules[hc.name] = ModuleHealth{
			Healthy: statuses[i].Healthy,
			Message: statuses[i].Message,
			Details: statuses[i].Details,
		}
		if !statuses[i].Healthy {
			resp.Status = "degraded"
		}
	}

	if resp.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// register handles POST /auth/register.
func (m *APIModule) register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	result, err := m.auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		Message: "Registration successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// login handles POST /auth/login.
func (m *APIModule) login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	result, err := m.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(AuthResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// me handles GET /auth/me.
func (m *APIModule) me(c *fiber.Ctx) error {
	identity, err := m.auth.GetUser(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(UserResponse{User: *identity})
}

// logout handles POST /auth/logout. Tokens are stateless; the client drops its copy.
func (m *APIModule) logout(c *fiber.Ctx) error {
	return c.JSON(MessageResponse{Message: "Logout successful"})
}

// createTask handles POST /tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var in domain.CreateInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	created, err := m.tasks.CreateTask(c.UserContext(), currentUser(c).ID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(TaskResponse{Task: created})
}

// listTasks handles GET /tasks.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	params := domain.ListParams{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Q:        c.Query("q"),
		DueFrom:  c.Query("dueFrom"),
		DueTo:    c.Query("dueTo"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
		Sort:     c.Query("sort"),
	}

	page, err := m.tasks.ListTasks(c.UserContext(), currentUser(c).ID, params)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// getTask handles GET /tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	found, err := m.tasks.GetTask(c.UserContext(), currentUser(c).ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(TaskResponse{Task: found})
}

// updateTask handles PATCH /tasks/:id.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	var patch domain.Patch
	if err := decodeBody(c, &patch); err != nil {
		return err
	}

	updated, err := m.tasks.UpdateTask(c.UserContext(), currentUser(c).ID, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(TaskResponse{Task: updated})
}

// toggleTask handles PATCH /tasks/:id/toggle.
func (m *APIModule) toggleTask(c *fiber.Ctx) error {
	toggled, err := m.tasks.ToggleTask(c.UserContext(), currentUser(c).ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(TaskResponse{Task: toggled})
}

// deleteTask handles DELETE /tasks/:id.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	if err := m.tasks.DeleteTask(c.UserContext(), currentUser(c).ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listActivity handles GET /activity.
func (m *APIModule) listActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return apperr.Validation("Invalid limit")
	}

	activities, err := m.activity.ListActivity(c.UserContext(), currentUser(c).ID, limit)
	if err != nil {
		return err
	}
	if activities == nil {
		activities = []notification.Activity{}
	}
	return c.JSON(ActivityResponse{Data: activities})
}
