package services

import (
	"crypto/sha1"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/ytproxy/internal/shared"
	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

type authKind int

const (
	authNone authKind = iota
	authBrowser
	authOAuth
)

func (k authKind) String() string {
	switch k {
	case authBrowser:
		return "browser"
	case authOAuth:
		return "oauth"
	default:
		return "none"
	}
}

// auth is the parsed form of a credential object.
type auth struct {
	kind    authKind
	headers map[string]string
	sapisid string
	token   *oauth2.Token
}

// loadCredentialFile reads a browser.json or oauth.json file written by setup.
func loadCredentialFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth file: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: auth file %s is not valid JSON: %v", shared.ErrInvalidCredentials, path, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: auth file %s must contain a JSON object", shared.ErrInvalidCredentials, path)
	}
	return m, nil
}

// parseAuth decides between OAuth token and browser header credentials.
func parseAuth(m map[string]any) (*auth, error) {
	if _, ok := m["refresh_token"]; ok {
		return parseOAuthToken(m)
	}
	if _, ok := m["access_token"]; ok {
		return parseOAuthToken(m)
	}
	return parseBrowserHeaders(m)
}

func parseBrowserHeaders(m map[string]any) (*auth, error) {
	headers := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: header %q must be a string", shared.ErrInvalidCredentials, k)
		}
		headers[strings.ToLower(k)] = s
	}

	cookie := headers["cookie"]
	if cookie == "" {
		return nil, fmt.Errorf("%w: missing cookie header", shared.ErrInvalidCredentials)
	}

	sapisid := sapisidFromCookie(cookie)
	if sapisid == "" {
		return nil, fmt.Errorf("%w: your cookie is missing the required value __Secure-3PAPISID", shared.ErrInvalidCredentials)
	}

	return &auth{kind: authBrowser, headers: headers, sapisid: sapisid}, nil
}

func parseOAuthToken(m map[string]any) (*auth, error) {
	access, _ := m["access_token"].(string)
	refresh, _ := m["refresh_token"].(string)
	if refresh == "" {
		return nil, fmt.Errorf("%w: oauth token is missing refresh_token", shared.ErrInvalidCredentials)
	}

	tok := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}
	if tt, ok := m["token_type"].(string); ok && tt != "" {
		tok.TokenType = tt
	}

	switch exp := m["expires_at"].(type) {
	case float64:
		tok.Expiry = time.Unix(int64(exp), 0)
	case string:
		if t, err := time.Parse(time.RFC3339, exp); err == nil {
			tok.Expiry = t
		}
	}
	if exp, ok := m["expiry"].(string); ok && tok.Expiry.IsZero() {
		if t, err := time.Parse(time.RFC3339, exp); err == nil {
			tok.Expiry = t
		}
	}

	return &auth{kind: authOAuth, token: tok}, nil
}

// sapisidFromCookie extracts the value used to sign browser requests.
func sapisidFromCookie(cookie string) string {
	var fallback string
	for _, part := range strings.Split(cookie, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch name {
		case "__Secure-3PAPISID":
			return value
		case "SAPISID":
			fallback = value
		}
	}
	return fallback
}

// sapisidHash builds the Authorization header value for cookie-authenticated requests.
func sapisidHash(sapisid, origin string, now time.Time) string {
	ts := now.Unix()
	sum := sha1.Sum(fmt.Appendf(nil, "%d %s %s", ts, sapisid, origin))
	return fmt.Sprintf("SAPISIDHASH %d_%x", ts, sum)
}

// tokenMapping converts an OAuth token into the object stored in oauth.json.
func tokenMapping(tok *oauth2.Token) map[string]any {
	m := map[string]any{
		"access_token":  tok.AccessToken,
		"refresh_token": tok.RefreshToken,
		"token_type":    tok.Type(),
	}
	if !tok.Expiry.IsZero() {
		m["expires_at"] = tok.Expiry.Unix()
		m["expiry"] = tok.Expiry.UTC().Format(time.RFC3339)
	}
	if scope, ok := tok.Extra("scope").(string); ok && scope != "" {
		m["scope"] = scope
	}
	return m
}
