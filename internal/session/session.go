// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the SQLite-backed session manager used by the
// admin interface, mainly for flash messages after form submissions.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const (
	flashKey      = "flash"
	flashErrorKey = "flash_error"
)

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	return sm
}

// PutFlash stores a one-shot notice shown on the next page load.
func PutFlash(ctx context.Context, sm *scs.SessionManager, msg string) {
	sm.Put(ctx, flashKey, msg)
}

// PutFlashError stores a one-shot error notice.
func PutFlashError(ctx context.Context, sm *scs.SessionManager, msg string) {
	sm.Put(ctx, flashErrorKey, msg)
}

// PopFlash returns and clears the pending notice and error notice.
func PopFlash(ctx context.Context, sm *scs.SessionManager) (msg, errMsg string) {
	return sm.PopString(ctx, flashKey), sm.PopString(ctx, flashErrorKey)
}
