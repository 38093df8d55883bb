package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/models"
)

func TestRegisterLoginMe(t *testing.T) {
	env := setupTestApp(t, nil)

	resp := env.do(t, "POST", "/api/auth/register", "", fiber.Map{
		"name": "Ann", "email": "Ann@Example.com", "password": "secret123",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var reg map[string]interface{}
	decode(t, resp, &reg)
	if reg["role"] != models.RoleUser || reg["token"] == "" || reg["email"] != "ann@example.com" {
		t.Errorf("Unexpected registration %v", reg)
	}
	if _, leaked := reg["password"]; leaked {
		t.Error("Password must not be returned")
	}

	resp = env.do(t, "POST", "/api/auth/register", "", fiber.Map{
		"name": "Ann", "email": "ann@example.com", "password": "secret123",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for duplicate email, got %d", resp.StatusCode)
	}

	resp = env.do(t, "POST", "/api/auth/login", "", fiber.Map{"email": "ann@example.com", "password": "wrong"})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for bad password, got %d", resp.StatusCode)
	}

	resp = env.do(t, "POST", "/api/auth/login", "", fiber.Map{"email": "ann@example.com", "password": "secret123"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, resp, &login)

	resp = env.do(t, "GET", "/api/auth/me", login.Token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var me map[string]interface{}
	decode(t, resp, &me)
	if me["_id"] != reg["_id"] || me["name"] != "Ann" {
		t.Errorf("Unexpected user %v", me)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestApp(t, nil)
	bad := []fiber.Map{
		{"name": "", "email": "a@b.c", "password": "secret123"},
		{"name": "A", "email": "not-an-email", "password": "secret123"},
		{"name": "A", "email": "a@b.c", "password": "123"},
		{"name": "A", "email": "a@b.c", "password": "secret123", "role": "owner"},
	}
	for _, body := range bad {
		if resp := env.do(t, "POST", "/api/auth/register", "", body); resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestRegisterAdminSecret(t *testing.T) {
	env := setupTestApp(t, nil)

	resp := env.do(t, "POST", "/api/auth/register", "", fiber.Map{
		"name": "Mallory", "email": "m@example.com", "password": "secret123",
		"role": "admin", "adminSecret": "guess",
	})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("Expected 403, got %d", resp.StatusCode)
	}
	var count int64
	env.db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no user created, found %d", count)
	}

	resp = env.do(t, "POST", "/api/auth/register", "", fiber.Map{
		"name": "Root", "email": "root@example.com", "password": "secret123",
		"role": "admin", "adminSecret": adminSecret,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var reg map[string]interface{}
	decode(t, resp, &reg)
	if reg["role"] != models.RoleAdmin {
		t.Errorf("Expected admin role, got %v", reg["role"])
	}
}

func TestAuthRequired(t *testing.T) {
	env := setupTestApp(t, nil)

	for _, path := range []string{"/api/auth/me", "/api/user/history"} {
		if resp := env.do(t, "GET", path, "", nil); resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, resp.StatusCode)
		}
	}
	if resp := env.do(t, "GET", "/api/user/history", "not.a.token", nil); resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for a bad token, got %d", resp.StatusCode)
	}

	resp := env.do(t, "GET", "/api/nowhere", "", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	decode(t, resp, &body)
	if body["ok"] != false {
		t.Errorf("Expected error envelope, got %v", body)
	}
}
