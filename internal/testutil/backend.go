// Package testutil provides an in-process stand-in for the RepMeUp backend:
// the REST surface and the realtime websocket endpoint, enough for the
// client packages to be tested end to end without the real service.
package testutil

import (
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/Mohd-umair/repmeup-frontend/internal/dto"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
)

type account struct {
	user     model.User
	password string
}

type Backend struct {
	App *fiber.App

	mu        sync.Mutex
	secret    string
	users     map[string]*account
	knowledge map[string]*model.KnowledgeEntry
	requests  map[string]int

	// interactions are kept in a TTL-less cache keyed by id.
	interactions *cache.Cache

	// InboxDelay, when set, delays GET /inbox by the returned duration.
	// Used to simulate reordered network responses.
	InboxDelay func(status string) time.Duration

	wsMu    sync.Mutex
	wsConns map[*websocket.Conn]map[string]bool
	emitted []EmittedFrame

	listener net.Listener
}

// EmittedFrame is a client-to-server frame the backend received.
type EmittedFrame struct {
	Event string
	Data  map[string]interface{}
}

func NewBackend() *Backend {
	b := &Backend{
		secret:       uuid.NewString(),
		users:        make(map[string]*account),
		knowledge:    make(map[string]*model.KnowledgeEntry),
		requests:     make(map[string]int),
		interactions: cache.New(cache.NoExpiration, cache.NoExpiration),
		wsConns:      make(map[*websocket.Conn]map[string]bool),
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             10 * 1024 * 1024,
		DisableStartupMessage: true,
	})
	app.Use(b.countRequests)

	api := app.Group("/api")

	api.Post("/auth/register", b.handleRegister)
	api.Post("/auth/login", b.handleLogin)
	api.Get("/auth/me", b.requireAuth, b.handleMe)
	api.Put("/auth/profile", b.requireAuth, b.handleUpdateProfile)
	api.Put("/auth/change-password", b.requireAuth, b.handleChangePassword)

	api.Get("/inbox/stats", b.requireAuth, b.handleStats)
	api.Get("/inbox", b.requireAuth, b.handleListInteractions)
	api.Get("/inbox/:id", b.requireAuth, b.handleGetInteraction)
	api.Post("/inbox/:id/reply", b.requireAuth, b.handleReply)
	api.Put("/inbox/:id/assign", b.requireAuth, b.handleAssign)
	api.Put("/inbox/:id/labels", b.requireAuth, b.handleAddLabel)
	api.Post("/inbox/:id/notes", b.requireAuth, b.handleAddNote)
	api.Put("/inbox/:id/status", b.requireAuth, b.handleUpdateStatus)

	api.Get("/knowledge-base/categories", b.requireAuth, b.handleCategories)
	api.Get("/knowledge-base", b.requireAuth, b.handleListKnowledge)
	api.Post("/knowledge-base/manual", b.requireAuth, b.handleCreateManual)
	api.Post("/knowledge-base/pdf", b.requireAuth, b.handleCreatePDF)
	api.Post("/knowledge-base/url", b.requireAuth, b.handleCreateURL)
	api.Get("/knowledge-base/:id", b.requireAuth, b.handleGetKnowledge)
	api.Put("/knowledge-base/:id", b.requireAuth, b.handleUpdateKnowledge)
	api.Delete("/knowledge-base/:id", b.requireAuth, b.handleDeleteKnowledge)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(b.serveWs))

	b.App = app
	return b
}

// Start serves on an ephemeral localhost port. Returns the API base URL and
// the websocket URL.
func (b *Backend) Start() (apiBaseURL, socketURL string, err error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", "", err
	}
	b.listener = listener
	go func() {
		_ = b.App.Listener(listener)
	}()
	addr := listener.Addr().String()
	return "http://" + addr + "/api", "ws://" + addr + "/ws", nil
}

func (b *Backend) Shutdown() {
	_ = b.App.Shutdown()
}

// RotateSecret invalidates every token issued so far; subsequent
// authenticated requests fail with 401.
func (b *Backend) RotateSecret() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.secret = uuid.NewString()
}

// RequestCount reports how many requests hit the given path.
func (b *Backend) RequestCount(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[method+" "+path]
}

func (b *Backend) countRequests(c *fiber.Ctx) error {
	b.mu.Lock()
	b.requests[c.Method()+" "+c.Path()]++
	b.mu.Unlock()
	return c.Next()
}

// --- seeding helpers ---

func (b *Backend) SeedUser(email, password string) model.User {
	user := model.User{
		Id:           uuid.NewString(),
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		Role:         model.UserRoleAgent,
		Organization: uuid.NewString(),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	b.mu.Lock()
	b.users[email] = &account{user: user, password: password}
	b.mu.Unlock()
	return user
}

func (b *Backend) SeedInteraction(interaction model.Interaction) {
	if interaction.Id == "" {
		interaction.Id = uuid.NewString()
	}
	b.interactions.Set(interaction.Id, interaction, cache.NoExpiration)
}

func (b *Backend) SeedKnowledge(entry model.KnowledgeEntry) {
	if entry.Id == "" {
		entry.Id = uuid.NewString()
	}
	b.mu.Lock()
	b.knowledge[entry.Id] = &entry
	b.mu.Unlock()
}

// TokenFor mints a valid bearer token for a seeded user.
func (b *Backend) TokenFor(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, ok := b.users[email]
	if !ok {
		return ""
	}
	return b.mintToken(&acct.user)
}

func (b *Backend) mintToken(user *model.User) string {
	claims := jwt.MapClaims{
		"user_id": user.Id,
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(b.secret))
	return signed
}

// --- envelope helpers ---

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"data":    data,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    status,
		"message": message,
	})
}

// --- auth ---

func (b *Backend) requireAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return fail(c, fiber.StatusUnauthorized, "Missing token")
	}
	tokenStr := authHeader[7:]

	b.mu.Lock()
	secret := b.secret
	b.mu.Unlock()

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Invalid claims")
	}
	c.Locals("user_id", claims["user_id"])
	return c.Next()
}

func (b *Backend) handleRegister(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid payload")
	}

	b.mu.Lock()
	if _, exists := b.users[req.Email]; exists {
		b.mu.Unlock()
		return fail(c, fiber.StatusBadRequest, "email already registered")
	}
	user := model.User{
		Id:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.UserRoleAdmin,
		Organization: uuid.NewString(),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	b.users[req.Email] = &account{user: user, password: req.Password}
	token := b.mintToken(&user)
	b.mu.Unlock()

	return ok(c, dto.AuthData{
		User:         user,
		Token:        token,
		RefreshToken: uuid.NewString(),
	})
}

func (b *Backend) handleLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid payload")
	}

	b.mu.Lock()
	acct, exists := b.users[req.Email]
	if !exists || acct.password != req.Password {
		b.mu.Unlock()
		return fail(c, fiber.StatusBadRequest, "invalid credentials")
	}
	token := b.mintToken(&acct.user)
	user := acct.user
	b.mu.Unlock()

	return ok(c, dto.AuthData{
		User:         user,
		Token:        token,
		RefreshToken: uuid.NewString(),
	})
}

func (b *Backend) currentUser(c *fiber.Ctx) *account {
	userId, _ := c.Locals("user_id").(string)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, acct := range b.users {
		if acct.user.Id == userId {
			return acct
		}
	}
	return nil
}

func (b *Backend) handleMe(c *fiber.Ctx) error {
	acct := b.currentUser(c)
	if acct == nil {
		return fail(c, fiber.StatusNotFound, "user not found")
	}
	return ok(c, acct.user)
}

func (b *Backend) handleUpdateProfile(c *fiber.Ctx) error {
	acct := b.currentUser(c)
	if acct == nil {
		return fail(c, fiber.StatusNotFound, "user not found")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid payload")
	}

	b.mu.Lock()
	if req.FirstName != "" {
		acct.user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		acct.user.LastName = req.LastName
	}
	if req.Email != "" {
		acct.user.Email = req.Email
	}
	if req.Avatar != "" {
		acct.user.Avatar = req.Avatar
	}
	if req.Preferences != nil {
		acct.user.Preferences = *req.Preferences
	}
	acct.user.UpdatedAt = time.Now().UTC()
	user := acct.user
	b.mu.Unlock()

	return ok(c, user)
}

func (b *Backend) handleChangePassword(c *fiber.Ctx) error {
	acct := b.currentUser(c)
	if acct == nil {
		return fail(c, fiber.StatusNotFound, "user not found")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid payload")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if acct.password != req.CurrentPassword {
		return fail(c, fiber.StatusBadRequest, "current password is incorrect")
	}
	acct.password = req.NewPassword
	return ok(c, nil)
}

// --- inbox ---

func (b *Backend) listInteractions() []model.Interaction {
	items := b.interactions.Items()
	interactions := make([]model.Interaction, 0, len(items))
	for _, item := range items {
		interactions = append(interactions, item.Object.(model.Interaction))
	}
	sort.Slice(interactions, func(i, j int) bool {
		return interactions[i].CreatedAt.After(interactions[j].CreatedAt)
	})
	return interactions
}

func (b *Backend) handleListInteractions(c *fiber.Ctx) error {
	status := c.Query("status")
	if b.InboxDelay != nil {
		if d := b.InboxDelay(status); d > 0 {
			time.Sleep(d)
		}
	}

	filtered := make([]model.Interaction, 0)
	for _, interaction := range b.listInteractions() {
		if status != "" && string(interaction.Status) != status {
			continue
		}
		if platform := c.Query("platform"); platform != "" && string(interaction.Platform) != platform {
			continue
		}
		if typ := c.Query("type"); typ != "" && string(interaction.Type) != typ {
			continue
		}
		if sentiment := c.Query("sentiment"); sentiment != "" && string(interaction.Sentiment) != sentiment {
			continue
		}
		filtered = append(filtered, interaction)
	}

	return ok(c, dto.InteractionListData{
		Interactions: filtered,
		Pagination: dto.Pagination{
			Page:  1,
			Limit: len(filtered),
			Total: len(filtered),
			Pages: 1,
		},
	})
}

func (b *Backend) handleGetInteraction(c *fiber.Ctx) error {
	item, found := b.interactions.Get(c.Params("id"))
	if !found {
		return fail(c, fiber.StatusNotFound, "interaction not found")
	}
	return ok(c, item.(model.Interaction))
}

func (b *Backend) handleStats(c *fiber.Ctx) error {
	stats := model.InboxStats{
		BySentiment: make(map[model.Sentiment]int),
		ByPlatform:  make(map[model.Platform]int),
	}
	for _, interaction := range b.listInteractions() {
		stats.Total++
		switch interaction.Status {
		case model.InteractionStatusUnread:
			stats.Unread++
		case model.InteractionStatusReplied:
			stats.Replied++
		case model.InteractionStatusResolved:
			stats.Resolved++
		}
		stats.BySentiment[interaction.Sentiment]++
		stats.ByPlatform[interaction.Platform]++
	}
	return ok(c, stats)
}

func (b *Backend) mutateInteraction(c *fiber.Ctx, mutate func(*model.Interaction)) error {
	id := c.Params("id")
	item, found := b.interactions.Get(id)
	if !found {
		return fail(c, fiber.StatusNotFound, "interaction not found")
	}
	interaction := item.(model.Interaction)
	mutate(&interaction)
	interaction.UpdatedAt = time.Now().UTC()
	b.interactions.Set(id, interaction, cache.NoExpiration)
	return ok(c, nil)
}

func (b *Backend) handleReply(c *fiber.Ctx) error {
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return fail(c, fiber.StatusBadRequest, "content is required")
	}
	return b.mutateInteraction(c, func(i *model.Interaction) {
		i.Status = model.InteractionStatusReplied
	})
}

func (b *Backend) handleAssign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil || req.UserId == "" {
		return fail(c, fiber.StatusBadRequest, "userId is required")
	}
	return b.mutateInteraction(c, func(i *model.Interaction) {
		i.AssignedTo = req.UserId
		i.Status = model.InteractionStatusAssigned
	})
}

func (b *Backend) handleAddLabel(c *fiber.Ctx) error {
	var req dto.AddLabelRequest
	if err := c.BodyParser(&req); err != nil || req.LabelId == "" {
		return fail(c, fiber.StatusBadRequest, "labelId is required")
	}
	return b.mutateInteraction(c, func(i *model.Interaction) {
		i.Labels = append(i.Labels, req.LabelId)
	})
}

func (b *Backend) handleAddNote(c *fiber.Ctx) error {
	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil || req.Note == "" {
		return fail(c, fiber.StatusBadRequest, "note is required")
	}
	return b.mutateInteraction(c, func(i *model.Interaction) {})
}

func (b *Backend) handleUpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return fail(c, fiber.StatusBadRequest, "status is required")
	}
	return b.mutateInteraction(c, func(i *model.Interaction) {
		i.Status = req.Status
	})
}
