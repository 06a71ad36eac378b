// internal/httpserver/player.go
//
// Player identity: each browser carries a signed JWT cookie holding a
// stable random player id. The id stamps persisted session records so a
// player's history hangs together across sessions. There are no accounts
// or passwords; the token only has to be unforgeable, not secret.

package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const playerCookieDefault = "cupgame_player"

// ensurePlayerID returns the player id from a valid token cookie, or mints
// a new id, signs it, and sets the cookie.
func (s *Server) ensurePlayerID(w http.ResponseWriter, r *http.Request) string {
	name := getEnv("COOKIE_NAME", playerCookieDefault)
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		if id := parsePlayerToken(c.Value); id != "" {
			return id
		}
	}

	id := genID()
	tok, exp, err := signPlayerToken(id)
	if err != nil {
		// Unsigned fallback keeps the game playable; the id just won't
		// survive this request.
		log.Warn().Err(err).Msg("sign player token")
		return id
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   os.Getenv("NODE_ENV") == "production",
		SameSite: func() http.SameSite {
			if os.Getenv("NODE_ENV") == "production" {
				return http.SameSiteNoneMode
			}
			return http.SameSiteLaxMode
		}(),
		Expires: exp,
	})
	return id
}

// signPlayerToken creates an HS256 JWT carrying the player id, valid for
// 180 days.
func signPlayerToken(id string) (string, time.Time, error) {
	exp := time.Now().Add(180 * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"pid": id,
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(jwtSecret()))
	return ss, exp, err
}

// parsePlayerToken extracts the player id from a token, or "" if the token
// is invalid or expired.
func parsePlayerToken(tok string) string {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret()), nil
	})
	if err != nil || !t.Valid {
		return ""
	}
	id, _ := claims["pid"].(string)
	return id
}

func jwtSecret() string {
	return getEnv("JWT_SECRET", "dev_secret_change_me")
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}
