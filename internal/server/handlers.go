package server

import (
	"net/http"
	"net/url"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"amazon_offers/pkg/errcodes"
	"amazon_offers/pkg/httpx/reply"
	"amazon_offers/pkg/httpx/req"
	"amazon_offers/pkg/rest"
)

func (s Server) getRoot(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Amazon offers bot running.")) //nolint:errcheck
}

func (s Server) getV1Status(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.Status{
		Name:      s.name,
		Version:   s.version,
		StartedAt: s.startedAt.Format(time.RFC3339),
		Watched:   len(s.keywords.Keywords()),
	})

	return nil
}

func (s Server) getV1Keywords(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.KeywordList{
		Keywords: s.keywords.Keywords(),
	})

	return nil
}

func (s Server) postV1Keywords(w http.ResponseWriter, r *http.Request) error {
	var request rest.AddKeywordRequest
	if err := req.Read(r, &request); err != nil {
		return err //nolint:wrapcheck
	}

	s.keywords.AddKeyword(request.Keyword)

	reply.Created(w)

	return nil
}

func (s Server) deleteV1Keyword(w http.ResponseWriter, r *http.Request) error {
	keyword, err := url.PathUnescape(chi.URLParam(r, "keyword"))
	if err != nil {
		return failure.NewInvalidArgumentError(
			"invalid keyword encoding",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(err.Error()),
		)
	}

	if !s.keywords.RemoveKeyword(keyword) {
		return failure.NewNotFoundError(
			"keyword is not watched",
			failure.WithCode(errcodes.KeywordNotWatched),
			failure.WithDescription("Keyword is not in the watch set"),
		)
	}

	reply.OK(w)

	return nil
}
