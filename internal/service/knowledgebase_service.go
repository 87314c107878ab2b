package service

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/Mohd-umair/repmeup-frontend/internal/apiclient"
	"github.com/Mohd-umair/repmeup-frontend/internal/dto"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
)

type IKnowledgeBaseService interface {
	List(ctx context.Context, params url.Values) (*dto.KnowledgeListData, error)
	Get(ctx context.Context, id string) (*model.KnowledgeEntry, error)
	CreateManual(ctx context.Context, req *dto.CreateManualRequest) (*model.KnowledgeEntry, error)
	CreateFromPDF(ctx context.Context, title, category, fileName string, pdf io.Reader) (*model.KnowledgeEntry, error)
	CreateFromURL(ctx context.Context, req *dto.CreateFromURLRequest) (*model.KnowledgeEntry, error)
	Update(ctx context.Context, id string, req *dto.UpdateKnowledgeRequest) (*model.KnowledgeEntry, error)
	Delete(ctx context.Context, id string) error
	GetCategories(ctx context.Context) ([]string, error)
}

// knowledgeBaseService is a stateless pass-through: no caching, no
// republishing. Callers re-fetch the list after any mutation.
type knowledgeBaseService struct {
	api      *apiclient.Client
	validate *validator.Validate
}

func NewKnowledgeBaseService(api *apiclient.Client) IKnowledgeBaseService {
	return &knowledgeBaseService{
		api:      api,
		validate: validator.New(),
	}
}

func (s *knowledgeBaseService) List(ctx context.Context, params url.Values) (*dto.KnowledgeListData, error) {
	resp, err := s.api.Get(ctx, "/knowledge-base", params)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var data dto.KnowledgeListData
	if err := resp.Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *knowledgeBaseService) Get(ctx context.Context, id string) (*model.KnowledgeEntry, error) {
	resp, err := s.api.Get(ctx, "/knowledge-base/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeEntry(resp)
}

func (s *knowledgeBaseService) CreateManual(ctx context.Context, req *dto.CreateManualRequest) (*model.KnowledgeEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	resp, err := s.api.Post(ctx, "/knowledge-base/manual", req)
	if err != nil {
		return nil, err
	}
	return decodeEntry(resp)
}

func (s *knowledgeBaseService) CreateFromPDF(ctx context.Context, title, category, fileName string, pdf io.Reader) (*model.KnowledgeEntry, error) {
	fields := map[string]string{
		"title":    title,
		"category": category,
	}
	resp, err := s.api.PostMultipart(ctx, "/knowledge-base/pdf", fields, "file", fileName, pdf)
	if err != nil {
		return nil, err
	}
	return decodeEntry(resp)
}

func (s *knowledgeBaseService) CreateFromURL(ctx context.Context, req *dto.CreateFromURLRequest) (*model.KnowledgeEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	resp, err := s.api.Post(ctx, "/knowledge-base/url", req)
	if err != nil {
		return nil, err
	}
	return decodeEntry(resp)
}

func (s *knowledgeBaseService) Update(ctx context.Context, id string, req *dto.UpdateKnowledgeRequest) (*model.KnowledgeEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	resp, err := s.api.Put(ctx, "/knowledge-base/"+id, req)
	if err != nil {
		return nil, err
	}
	return decodeEntry(resp)
}

func (s *knowledgeBaseService) Delete(ctx context.Context, id string) error {
	resp, err := s.api.Delete(ctx, "/knowledge-base/"+id)
	if err != nil {
		return err
	}
	return resp.Err()
}

func (s *knowledgeBaseService) GetCategories(ctx context.Context) ([]string, error) {
	resp, err := s.api.Get(ctx, "/knowledge-base/categories", nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var categories []string
	if err := resp.Decode(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func decodeEntry(resp *apiclient.Response) (*model.KnowledgeEntry, error) {
	if err := resp.Err(); err != nil {
		return nil, err
	}
	var entry model.KnowledgeEntry
	if err := resp.Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListPage is a convenience wrapper building pagination query params.
func ListPage(page, limit int) url.Values {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	return values
}
