// http/handlers.go
package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ViniZap4/gestor360/domain"
	"github.com/ViniZap4/gestor360/events"
	"github.com/ViniZap4/gestor360/kanban"
	"github.com/ViniZap4/gestor360/store"
)

func (s *Server) handleFolders(c *fiber.Ctx) error {
	folders, err := s.store.GetFolders(c.UserContext())
	if err != nil {
		return fail(c, err, "fetching folders")
	}
	return c.JSON(folders)
}

func (s *Server) handleDocuments(c *fiber.Ctx) error {
	docs, err := s.store.GetDocuments(c.UserContext())
	if err != nil {
		return fail(c, err, "fetching documents")
	}
	return c.JSON(docs)
}

func (s *Server) handleDocumentsByFolder(c *fiber.Ctx) error {
	docs, err := s.store.GetDocumentsByFolder(c.UserContext(), c.Params("folder"))
	if err != nil {
		return fail(c, err, "fetching documents by folder")
	}
	return c.JSON(docs)
}

func (s *Server) handleGetDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgInvalidID})
	}

	doc, err := s.store.GetDocument(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "fetching document")
	}
	return c.JSON(doc)
}

func (s *Server) handleKanban(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgInvalidID})
	}

	doc, err := s.store.GetDocument(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "fetching document")
	}
	return c.JSON(kanban.Parse(doc.Content))
}

func (s *Server) handleCreateDocument(c *fiber.Ctx) error {
	var in domain.InsertDocument
	if err := c.BodyParser(&in); err != nil {
		return fail(c, &domain.ValidationError{Fields: []domain.FieldError{{Message: err.Error()}}}, "creating document")
	}
	if err := domain.Validate(in); err != nil {
		return fail(c, err, "creating document")
	}

	doc, err := s.store.CreateDocument(c.UserContext(), in)
	if err != nil {
		return fail(c, err, "creating document")
	}

	s.publish(events.DocumentCreated, &doc)
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (s *Server) handleUpdateDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgInvalidID})
	}

	var patch domain.DocumentPatch
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, &domain.ValidationError{Fields: []domain.FieldError{{Message: err.Error()}}}, "updating document")
	}
	if err := domain.Validate(patch); err != nil {
		return fail(c, err, "updating document")
	}

	doc, err := s.store.UpdateDocument(c.UserContext(), id, patch)
	if err != nil {
		return fail(c, err, "updating document")
	}

	s.publish(events.DocumentUpdated, &doc)
	return c.JSON(doc)
}

func (s *Server) handleDeleteDocument(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgInvalidID})
	}

	deleted, err := s.store.DeleteDocument(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "deleting document")
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msgNotFound})
	}

	s.publish(events.DocumentDeleted, &domain.Document{ID: id})
	return c.JSON(fiber.Map{"message": msgDeleted})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgQueryMissing})
	}

	docs, err := store.Search(c.UserContext(), s.store, q)
	if err != nil {
		return fail(c, err, "searching documents")
	}
	return c.JSON(docs)
}

func (s *Server) handleGitSync(c *fiber.Ctx) error {
	return c.JSON(s.syncer.Sync(c.UserContext()))
}

func (s *Server) publish(eventType string, doc *domain.Document) {
	if s.hub != nil {
		s.hub.Publish(eventType, doc, "")
	}
}

func documentID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil
}
