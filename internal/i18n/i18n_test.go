package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return WithLocalizer(context.Background(), NewLocalizer(lang))
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "Gradebook" {
		t.Errorf("T(AppTitle) = %q, want 'Gradebook'", got)
	}

	got = T(ctx, "ErrorBadCredentials")
	if got != "ERROR: No password matches that username." {
		t.Errorf("T(ErrorBadCredentials) = %q", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "AppTitle")
	if got != "Журнал оценок" {
		t.Errorf("T(AppTitle) = %q, want 'Журнал оценок'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "StudentsCount", 1); got != "1 student" {
		t.Errorf("Tp(StudentsCount, 1) = %q, want '1 student'", got)
	}
	if got := Tp(ctx, "StudentsCount", 3); got != "3 students" {
		t.Errorf("Tp(StudentsCount, 3) = %q, want '3 students'", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "StudentResultsTitle", map[string]any{"Name": "Jane Doe"})
	if got != "Quiz results for Jane Doe" {
		t.Errorf("Td(StudentResultsTitle) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestLanguages(t *testing.T) {
	initLang(t, "en")

	langs := Languages()
	if len(langs) != 2 {
		t.Errorf("expected en and ru catalogs, got %v", langs)
	}
}

func TestMiddlewareHonoursAcceptLanguage(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var got string
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = T(r.Context(), "Logout")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "Выйти" {
		t.Errorf("with Accept-Language ru: got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "Log out" {
		t.Errorf("without Accept-Language: got %q", got)
	}
}

func TestEveryCatalogLoads(t *testing.T) {
	for _, lang := range []string{"en", "ru"} {
		if err := Init(lang); err != nil {
			t.Fatalf("Init(%s): %v", lang, err)
		}
		ctx := WithLocalizer(context.Background(), NewLocalizer(lang))
		if got := T(ctx, "ColumnID"); got != "ID" {
			t.Errorf("%s: T(ColumnID) = %q, want 'ID'", lang, got)
		}
	}
}
