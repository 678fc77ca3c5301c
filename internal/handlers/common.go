// common.go
//
// A multi-tenant university library service.
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of unilib.
// unilib is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// unilib is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with unilib.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/unilib/internal/availability"
	"github.com/localnerve/unilib/internal/services"
	"github.com/localnerve/unilib/internal/utils"
	"gorm.io/gorm"
)

// requestDB binds the caller's cancellation context to the shared pool, so a
// dropped client aborts in-flight storage work.
func requestDB(db *gorm.DB, c *fiber.Ctx) *gorm.DB {
	return db.WithContext(c.UserContext())
}

// serviceErrorResponse maps service sentinel errors onto the HTTP contract
func serviceErrorResponse(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "Not found")
	case errors.Is(err, services.ErrNoCopies):
		return utils.ErrorResponse(c, "No copies available", fiber.StatusBadRequest, errorType)
	case errors.Is(err, services.ErrAlreadyReturned):
		return utils.ErrorResponse(c, "Already returned", fiber.StatusBadRequest, errorType)
	case errors.Is(err, services.ErrForbidden):
		return utils.ErrorResponse(c, "Forbidden", fiber.StatusForbidden, errorType)
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.ErrorResponse(c, "Invalid credentials", fiber.StatusUnauthorized, errorType)
	case errors.Is(err, services.ErrInvalidInput):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
	case errors.Is(err, services.ErrConflict):
		return utils.ConflictResponse(c, err.Error(), strings.Contains(err.Error(), "retry"))
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}
}

// parseListOptions extracts search/listing query parameters,
// supporting both repeated 'genres' keys and delimited values.
func parseListOptions(c *fiber.Ctx) availability.ListOptions {
	opts := availability.ListOptions{
		Query: c.Query("q"),
		Sort:  c.Query("sort"),
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", availability.DefaultPageSize),
	}

	seen := make(map[string]struct{})
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		if string(key) != "genres" {
			return
		}
		for _, v := range strings.FieldsFunc(string(value), func(r rune) bool {
			return r == ',' || r == ';' || r == '|'
		}) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			opts.Genres = append(opts.Genres, v)
		}
	})

	return opts.Clamp()
}
