package testutil

import (
	"io"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Mohd-umair/repmeup-frontend/internal/dto"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
)

func (b *Backend) handleListKnowledge(c *fiber.Ctx) error {
	category := c.Query("category")

	b.mu.Lock()
	entries := make([]model.KnowledgeEntry, 0, len(b.knowledge))
	for _, entry := range b.knowledge {
		if category != "" && entry.Category != category {
			continue
		}
		entries = append(entries, *entry)
	}
	b.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return ok(c, dto.KnowledgeListData{
		Entries: entries,
		Pagination: dto.Pagination{
			Page:  1,
			Limit: len(entries),
			Total: len(entries),
			Pages: 1,
		},
	})
}

func (b *Backend) handleGetKnowledge(c *fiber.Ctx) error {
	b.mu.Lock()
	entry, found := b.knowledge[c.Params("id")]
	b.mu.Unlock()
	if !found {
		return fail(c, fiber.StatusNotFound, "knowledge entry not found")
	}
	return ok(c, entry)
}

func (b *Backend) storeEntry(entry model.KnowledgeEntry) model.KnowledgeEntry {
	entry.Id = uuid.NewString()
	entry.IsActive = true
	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt
	b.mu.Lock()
	b.knowledge[entry.Id] = &entry
	b.mu.Unlock()
	return entry
}

func (b *Backend) handleCreateManual(c *fiber.Ctx) error {
	var req dto.CreateManualRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return fail(c, fiber.StatusBadRequest, "title is required")
	}
	entry := b.storeEntry(model.KnowledgeEntry{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Source:   model.KnowledgeSourceManual,
		Priority: req.Priority,
	})
	return ok(c, entry)
}

func (b *Backend) handleCreatePDF(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "file is required")
	}
	opened, err := file.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "unreadable file")
	}
	defer opened.Close()
	content, err := io.ReadAll(opened)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "unreadable file")
	}

	entry := b.storeEntry(model.KnowledgeEntry{
		Title:    c.FormValue("title"),
		Content:  string(content),
		Category: c.FormValue("category"),
		Source:   model.KnowledgeSourcePDF,
		Metadata: map[string]interface{}{"fileName": file.Filename},
	})
	return ok(c, entry)
}

func (b *Backend) handleCreateURL(c *fiber.Ctx) error {
	var req dto.CreateFromURLRequest
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return fail(c, fiber.StatusBadRequest, "url is required")
	}
	entry := b.storeEntry(model.KnowledgeEntry{
		Title:    req.URL,
		Category: req.Category,
		Source:   model.KnowledgeSourceURL,
		Metadata: map[string]interface{}{"sourceUrl": req.URL},
	})
	return ok(c, entry)
}

func (b *Backend) handleUpdateKnowledge(c *fiber.Ctx) error {
	var req dto.UpdateKnowledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid payload")
	}

	b.mu.Lock()
	entry, found := b.knowledge[c.Params("id")]
	if !found {
		b.mu.Unlock()
		return fail(c, fiber.StatusNotFound, "knowledge entry not found")
	}
	if req.Title != "" {
		entry.Title = req.Title
	}
	if req.Content != "" {
		entry.Content = req.Content
	}
	if req.Category != "" {
		entry.Category = req.Category
	}
	if req.Tags != nil {
		entry.Tags = req.Tags
	}
	if req.Priority != nil {
		entry.Priority = *req.Priority
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}
	entry.UpdatedAt = time.Now().UTC()
	updated := *entry
	b.mu.Unlock()

	return ok(c, updated)
}

func (b *Backend) handleDeleteKnowledge(c *fiber.Ctx) error {
	b.mu.Lock()
	_, found := b.knowledge[c.Params("id")]
	delete(b.knowledge, c.Params("id"))
	b.mu.Unlock()
	if !found {
		return fail(c, fiber.StatusNotFound, "knowledge entry not found")
	}
	return ok(c, nil)
}

func (b *Backend) handleCategories(c *fiber.Ctx) error {
	seen := make(map[string]bool)
	b.mu.Lock()
	for _, entry := range b.knowledge {
		if entry.Category != "" {
			seen[entry.Category] = true
		}
	}
	b.mu.Unlock()

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return ok(c, categories)
}
