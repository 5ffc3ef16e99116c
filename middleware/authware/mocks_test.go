package authware_test

import (
	"context"

	"github.com/goliatone/go-router"
)

// mockContext is a minimal router.Context for driving the middleware.
// Only the members the filter touches carry state; the rest return zero
// values.
type mockContext struct {
	headers map[string]string
	cookies map[string]string
	queries map[string]string
	locals  map[any]any
	ctx     context.Context

	NextCalled bool
}

var _ router.Context = (*mockContext)(nil)

func newMockContext() *mockContext {
	return &mockContext{
		headers: map[string]string{},
		cookies: map[string]string{},
		queries: map[string]string{},
		locals:  map[any]any{},
		ctx:     context.Background(),
	}
}

func (m *mockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetContext(ctx context.Context) {
	m.ctx = ctx
}

func (m *mockContext) GetString(key string, defaultValue string) string {
	if v, ok := m.headers[key]; ok {
		return v
	}
	return defaultValue
}

func (m *mockContext) Cookies(key string, defaultValue ...string) string {
	if v, ok := m.cookies[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Query(key string, defaultValue string) string {
	if v, ok := m.queries[key]; ok {
		return v
	}
	return defaultValue
}

func (m *mockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.locals[key] = value[0]
		return value[0]
	}
	return m.locals[key]
}

func (m *mockContext) Path() string   { return "" }
func (m *mockContext) Method() string { return "" }
func (m *mockContext) Body() []byte   { return nil }

func (m *mockContext) Status(code int) router.Context { return m }
func (m *mockContext) SendString(s string) error      { return nil }
func (m *mockContext) Send(b []byte) error            { return nil }
func (m *mockContext) JSON(code int, val any) error   { return nil }
func (m *mockContext) NoContent(code int) error       { return nil }

func (m *mockContext) Render(name string, bind any, layout ...string) error { return nil }

func (m *mockContext) Redirect(path string, status ...int) error { return nil }
func (m *mockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	return nil
}
func (m *mockContext) RedirectBack(fallback string, status ...int) error { return nil }

func (m *mockContext) SetHeader(key, val string) router.Context { return m }
func (m *mockContext) Header(key string) string                 { return m.headers[key] }

func (m *mockContext) Get(key string, defaultValue any) any       { return defaultValue }
func (m *mockContext) GetBool(key string, defaultValue bool) bool { return defaultValue }
func (m *mockContext) GetInt(key string, def int) int             { return def }
func (m *mockContext) Set(key string, val any)                    {}

func (m *mockContext) Bind(i any) error         { return nil }
func (m *mockContext) BindJSON(i any) error     { return nil }
func (m *mockContext) BindXML(i any) error      { return nil }
func (m *mockContext) BindQuery(i any) error    { return nil }
func (m *mockContext) CookieParser(i any) error { return nil }

func (m *mockContext) Cookie(cookie *router.Cookie) {}

func (m *mockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}
func (m *mockContext) ParamsInt(key string, defaultValue int) int   { return defaultValue }
func (m *mockContext) QueryInt(key string, defaultValue int) int    { return defaultValue }
func (m *mockContext) Queries() map[string]string                   { return m.queries }
func (m *mockContext) OriginalURL() string                          { return "" }
func (m *mockContext) OnNext(callback func() error)                 {}
func (m *mockContext) Referer() string                              { return "" }
