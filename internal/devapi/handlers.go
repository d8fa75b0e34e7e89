package devapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/mailforward/internal/adminapi"
	"github.com/nao1215/mailforward/pkg/middleware"
)

const (
	// maxPageSize はログ一覧で一度に返す最大件数。
	maxPageSize = 100
	// adminSubject は発行するトークンの主体。
	adminSubject = "admin"
)

// エラー本文は本番の管理APIに合わせて英語で返す。
const (
	msgInvalidPassword = "invalid password"
	msgInvalidID       = "invalid id"
	msgDomainExists    = "domain exists"
	msgAccountExists   = "account exists"
	msgDomainNotFound  = "Domain not found"
	msgAccountNotFound = "Account not found"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

type domainRequest struct {
	Name string `json:"name" binding:"required"`
}

type accountRequest struct {
	Pattern     string `json:"pattern" binding:"required"`
	ForwardTo   string `json:"forward_to" binding:"required"`
	Description string `json:"description"`
}

// accountPatch は更新時のリクエスト。省略した項目は既存の値を引き継ぐ。
type accountPatch struct {
	Pattern     *string `json:"pattern"`
	ForwardTo   *string `json:"forward_to"`
	Description *string `json:"description"`
}

// handleLogin は管理者パスワードを照合してトークンを発行するハンドラを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.Password)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidPassword})
			return
		}

		token, err := middleware.GenerateJWT(s.cfg.JWTSecret, adminSubject, s.cfg.TokenTTL)
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// -- Domains --

func (s *Server) handleListDomains() gin.HandlerFunc {
	return func(c *gin.Context) {
		domains, err := s.store.ListDomains(c.Request.Context())
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, domains)
	}
}

func (s *Server) handleCreateDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name := strings.ToLower(strings.TrimSpace(req.Name))
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		domain, err := s.store.CreateDomain(c.Request.Context(), name)
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgDomainExists})
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, domain)
	}
}

func (s *Server) handleDeleteDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		err := s.store.DeleteDomain(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgDomainNotFound})
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	}
}

// -- Accounts --

func (s *Server) handleListAccounts() gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := s.store.ListAccounts(c.Request.Context())
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, accounts)
	}
}

func (s *Server) handleCreateAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req accountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in := adminapi.AccountInput{
			Pattern:     strings.TrimSpace(req.Pattern),
			ForwardTo:   strings.TrimSpace(req.ForwardTo),
			Description: req.Description,
		}
		if msg := validateAccount(in); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		account, err := s.store.CreateAccount(c.Request.Context(), in)
		if errors.Is(err, ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgAccountExists})
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

func (s *Server) handleUpdateAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		current, err := s.store.GetAccount(ctx, id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgAccountNotFound})
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}

		var patch accountPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		in := adminapi.AccountInput{
			Pattern:     current.Pattern,
			ForwardTo:   current.ForwardTo,
			Description: current.Description,
		}
		if patch.Pattern != nil {
			in.Pattern = strings.TrimSpace(*patch.Pattern)
		}
		if patch.ForwardTo != nil {
			in.ForwardTo = strings.TrimSpace(*patch.ForwardTo)
		}
		if patch.Description != nil {
			in.Description = *patch.Description
		}
		if msg := validateAccount(in); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		updated, err := s.store.UpdateAccount(ctx, id, in)
		switch {
		case errors.Is(err, ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"error": msgAccountExists})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": msgAccountNotFound})
		case err != nil:
			internalError(c, err)
		default:
			c.JSON(http.StatusOK, updated)
		}
	}
}

func (s *Server) handleDeleteAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		err := s.store.DeleteAccount(c.Request.Context(), id)
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgAccountNotFound})
			return
		}
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	}
}

// -- Logs --

// handleListLogs は転送ログを新しい順にページ単位で返すハンドラを返す。
// page・pageSizeが不正な場合は既定値を使う。
func (s *Server) handleListLogs() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = adminapi.DefaultPage
		}
		pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
		if err != nil || pageSize < 1 {
			pageSize = adminapi.DefaultPageSize
		}
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}

		result, err := s.store.ListLogs(c.Request.Context(), page, pageSize)
		if err != nil {
			internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// parseID はパスパラメータのidを読む。不正な場合は400を返してfalseを返す。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidID})
		return 0, false
	}
	return uint(id), true
}

// validateAccount は転送ルールの内容を検証し、不正な場合は理由を返す。
func validateAccount(in adminapi.AccountInput) string {
	if in.Pattern == "" {
		return "pattern is required"
	}
	if _, err := regexp.Compile(in.Pattern); err != nil {
		return "invalid pattern: " + err.Error()
	}
	if in.ForwardTo == "" {
		return "forward_to is required"
	}
	for _, addr := range strings.Split(in.ForwardTo, ",") {
		if !strings.Contains(strings.TrimSpace(addr), "@") {
			return "invalid forward_to address: " + strings.TrimSpace(addr)
		}
	}
	return ""
}
