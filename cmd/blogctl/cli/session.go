package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const sessionFileName = "session.json"

// session is the saved login. It is written with 0600 permissions.
type session struct {
	APIURL string `json:"api_url"`
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

var errNotLoggedIn = errors.New("not logged in; run `blogctl auth login` first")

func (a *app) sessionPath() (string, error) {
	dir := a.configDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locate config dir: %w", err)
		}
		dir = filepath.Join(base, "inkpost")
	}
	return filepath.Join(dir, sessionFileName), nil
}

// loadSession returns the saved session, or nil when there is none.
func (a *app) loadSession() (*session, error) {
	path, err := a.sessionPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	// A token minted by another server is useless here.
	if sess.APIURL != "" && sess.APIURL != a.apiURL {
		return nil, nil
	}
	return &sess, nil
}

func (a *app) saveSession(sess *session) error {
	path, err := a.sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// clearSession removes the saved session. It reports whether one existed.
func (a *app) clearSession() (bool, error) {
	path, err := a.sessionPath()
	if err != nil {
		return false, err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove session: %w", err)
	}
	return true, nil
}

// requireSession returns the saved session or errNotLoggedIn.
func (a *app) requireSession() (*session, error) {
	sess, err := a.loadSession()
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Token == "" {
		return nil, errNotLoggedIn
	}
	return sess, nil
}
