package http

import (
	"github.com/nickspeelman/reflect/internal/domain"
)

func toError(err error) ErrorResp {
	errResp := ErrorResp{}
	switch e := err.(type) {
	case *domain.ValidationErr:
		errResp.Error.Code = BADREQUEST
		errResp.Error.Message = e.Error()
	case *domain.NotFoundErr:
		errResp.Error.Code = NOTFOUND
		errResp.Error.Message = e.Error()
	case *domain.ConflictErr:
		errResp.Error.Code = CONFLICT
		errResp.Error.Message = e.Error()
	case *domain.BackendUnavailableErr:
		errResp.Error.Code = UNAVAILABLE
		errResp.Error.Message = e.Error()
	default:
		errResp.Error.Code = INTERNALERROR
		errResp.Error.Message = "internal server error"
	}
	return errResp
}

func toEntry(e domain.JournalEntry) Entry {
	return Entry{
		Id:            e.ID,
		Prompt:        e.Prompt,
		Response:      e.Response,
		Summary:       e.Summary,
		SummaryMethod: e.SummaryMethod,
		Facets:        e.Facets,
		Tags:          e.Tags,
		Sentiment:     e.Sentiment,
		CreatedAt:     e.CreatedAt,
	}
}

func toRelatedEntry(r domain.RelatedEntry) RelatedEntry {
	return RelatedEntry{
		Entry:     toEntry(r.Entry),
		Relevance: r.Relevance,
	}
}

func toTheme(t domain.Theme) Theme {
	return Theme{
		Id:          t.ID,
		Label:       t.Label,
		Alias:       t.Alias,
		Description: t.Description,
		Coherence:   t.Coherence,
		Count:       t.Count,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
