// common.go
//
// A scalable, high performance drop-in replacement for the taxtrack mysql data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of taxtrackdb.
// taxtrackdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// taxtrackdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with taxtrackdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/taxtrackdb/internal/models"
	"github.com/localnerve/taxtrackdb/internal/services"
	"gorm.io/gorm"
)

// getAuthzID extracts the authorizer user id from the session data
// the auth middleware stored in context.
func getAuthzID(c *fiber.Ctx) (string, error) {
	user := c.Locals("user")
	if user == nil {
		return "", fmt.Errorf("user not found in context")
	}

	userMap, ok := user.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid user data format")
	}

	authzID, ok := userMap["id"].(string)
	if !ok {
		return "", fmt.Errorf("user ID not found")
	}

	return authzID, nil
}

// requireAccount resolves the session user to a local account row.
func requireAccount(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	authzID, err := getAuthzID(c)
	if err != nil {
		return nil, err
	}

	account, err := services.UserByAuthzID(db, authzID)
	if err != nil {
		return nil, fmt.Errorf("no account for session user")
	}

	return account, nil
}

// paramUint64 parses a numeric route parameter.
func paramUint64(c *fiber.Ctx, name string) (uint64, error) {
	raw := c.Params(name)
	val, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s'", name, raw)
	}
	return val, nil
}

// paramYear parses a tax year route parameter.
func paramYear(c *fiber.Ctx) (int, error) {
	raw := c.Params("year")
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1900 || val > 9999 {
		return 0, fmt.Errorf("invalid year '%s'", raw)
	}
	return val, nil
}
