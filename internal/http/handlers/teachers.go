package handlers

import (
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"

	dbpkg "meetstats/internal/db"
)

type teacherRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ListTeachers returns the roster ordered by name.
func ListTeachers(teachers *dbpkg.TeacherStore) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		list, err := teachers.List(ctx)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load teachers")
			return
		}
		jsonResponse(ctx, list)
	}
}

// SaveTeacher adds or renames a roster entry keyed by email.
func SaveTeacher(teachers *dbpkg.TeacherStore) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var req teacherRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Name) == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "email and name are required")
			return
		}
		if err := teachers.Save(ctx, req.Email, req.Name); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to save teacher")
			return
		}
		jsonResponse(ctx, map[string]any{"success": true})
	}
}

// DeleteTeacher removes a roster entry. Synced history and rollups for the
// teacher are kept.
func DeleteTeacher(teachers *dbpkg.TeacherStore) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		email, _ := ctx.UserValue("email").(string)
		if email == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "email is required")
			return
		}
		if err := teachers.Delete(ctx, email); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to delete teacher")
			return
		}
		jsonResponse(ctx, map[string]any{"success": true})
	}
}
