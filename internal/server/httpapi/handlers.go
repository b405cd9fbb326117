package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/httpx"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const (
	msgInvalidAccount = "Invalid account address"
	msgInvalidBody    = "Invalid request body"
	mintMessage       = "Sign to mint your license"
)

func (h *Handler) actionRules(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, models.ActionRules{Rules: []models.ActionRule{
		{PathPattern: "/mint", APIPath: services.ActionsPath},
	}})
}

func (h *Handler) describeAction(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.mint.Describe())
}

func (h *Handler) buildAction(w http.ResponseWriter, r *http.Request) {
	var req models.ActionPostRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, httpx.MaxBodyBytes)).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, models.ActionError{Message: msgInvalidBody})
		return
	}

	res, err := h.mint.Build(r.Context(), req.Account)
	if err != nil {
		if errors.Is(err, common.ErrInvalidRecipient) {
			httpx.WriteJSON(w, http.StatusBadRequest, models.ActionError{Message: msgInvalidAccount})
			return
		}
		kind := common.KindOf(err)
		msg := err.Error()
		if kind == common.KindInternal {
			h.logger.Error(r.Context(), "mint build failed", "error", err)
			msg = common.ErrorInternal.Error()
		}
		httpx.WriteJSON(w, httpx.StatusFor(kind), models.ActionError{Message: msg})
		return
	}

	h.logger.Info(r.Context(), "mint transaction built", "asset", res.Asset, "account", req.Account)
	httpx.WriteJSON(w, http.StatusOK, models.ActionPostResponse{Transaction: res.Transaction, Message: mintMessage})
}

type readResponse struct {
	Plaintext string `json:"plaintext"`
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) {
	var p models.EncryptedPayload
	if err := httpx.ReadJSON(r, &p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, common.KindInvalidInput.String(), err.Error(), nil)
		return
	}

	plain, err := h.articles.Read(r.Context(), &p)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, readResponse{Plaintext: string(plain)})
}

func (h *Handler) listArticles(w http.ResponseWriter, r *http.Request) {
	list, err := h.articles.List(r.Context(), models.Identity(r.URL.Query().Get("owner")))
	if err != nil {
		h.logger.Error(r.Context(), "list articles failed", "error", err)
		httpx.WriteServiceError(w, err)
		return
	}
	if list == nil {
		list = []*models.Article{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"articles": list})
}

func (h *Handler) getArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}
