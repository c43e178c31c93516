package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"module/blogwithusers/internal/clients/newsapi"
	"module/blogwithusers/internal/db"
	"module/blogwithusers/internal/dto"
	"module/blogwithusers/internal/models"
	"module/blogwithusers/internal/services/search"
	"module/blogwithusers/internal/utilities"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeNews struct {
	mu       sync.Mutex
	articles []newsapi.Article
	err      error
	queries  []string
}

func (f *fakeNews) Search(_ context.Context, query string) ([]newsapi.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.articles, f.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []dto.ContactRequest
	err  error
}

func (f *fakeNotifier) SendContact(_ context.Context, req dto.ContactRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, req)
	return nil
}

type testApp struct {
	srv      *httptest.Server
	db       *gorm.DB
	news     *fakeNews
	notifier *fakeNotifier
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.ConnectDB(filepath.Join(t.TempDir(), "blog.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.MigrateDB(database))

	app := &testApp{db: database, news: &fakeNews{}, notifier: &fakeNotifier{}}
	server, err := NewServer(NewContainerWith("test-secret", database, app.news, app.notifier))
	require.NoError(t, err)

	app.srv = httptest.NewServer(server)
	t.Cleanup(func() {
		app.srv.Close()
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return app
}

// client returns a browser-like client that keeps cookies and does not
// follow redirects.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(a.srv.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, c *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(a.srv.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (a *testApp) register(t *testing.T, email string, name string) *http.Client {
	t.Helper()
	c := a.client(t)
	resp, _ := a.post(t, c, "/register", url.Values{
		"email":    {email},
		"password": {"hunter22"},
		"name":     {name},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	return c
}

func (a *testApp) createPost(t *testing.T, admin *http.Client, title string) *models.Post {
	t.Helper()
	resp, _ := a.post(t, admin, "/new-post", url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"img_url":  {"https://img.example/cover.png"},
		"body":     {"<p>Hello there</p>"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var post models.Post
	require.NoError(t, a.db.Where("title = ?", title).First(&post).Error)
	return &post
}

func (a *testApp) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.db.Model(model).Count(&n).Error)
	return n
}

func testArticles(n int) []newsapi.Article {
	out := make([]newsapi.Article, n)
	for i := range out {
		out[i] = newsapi.Article{
			Source:      newsapi.Source{Name: "Wire"},
			Title:       fmt.Sprintf("Story %d", i+1),
			Description: fmt.Sprintf("<b>About</b> story %d", i+1),
			Url:         fmt.Sprintf("https://news.example/%d", i+1),
			UrlToImage:  fmt.Sprintf("https://news.example/%d.png", i+1),
		}
	}
	return out
}

func TestRegister_DuplicateEmailRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "ada@example.com", "Ada")

	c := app.client(t)
	resp, _ := app.post(t, c, "/register", url.Values{
		"email":    {"ada@example.com"},
		"password": {"another1"},
		"name":     {"Imposter"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, int64(1), app.count(t, &models.User{}))

	_, body := app.get(t, c, "/login")
	assert.Contains(t, body, "already signed up with that email, log in instead")
}

func TestRegister_InvalidFormRerenders(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.post(t, app.client(t), "/register", url.Values{"email": {"not-an-email"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Invalid email address.")
	assert.Contains(t, body, "This field is required.")
	assert.Equal(t, int64(0), app.count(t, &models.User{}))
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "ada@example.com", "Ada")

	c := app.client(t)
	resp, body := app.post(t, c, "/login", url.Values{"email": {"nobody@example.com"}, "password": {"x"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "This email does not exist, please try again")

	resp, body = app.post(t, c, "/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Password incorrect, please try again")

	resp, _ = app.post(t, c, "/login", url.Values{"email": {"ada@example.com"}, "password": {"hunter22"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	_, body = app.get(t, c, "/")
	assert.Contains(t, body, "Log Out")

	resp, _ = app.get(t, c, "/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	_, body = app.get(t, c, "/")
	assert.NotContains(t, body, "Log Out")
}

func TestAdminOnlyRoutes(t *testing.T) {
	app := newTestApp(t)
	admin := app.register(t, "admin@example.com", "Admin")
	reader := app.register(t, "reader@example.com", "Reader")

	resp, _ := app.get(t, admin, "/new-post")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.get(t, reader, "/new-post")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	anon := app.client(t)
	resp, _ = app.get(t, anon, "/new-post")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	_, body := app.get(t, anon, "/login")
	assert.Contains(t, body, "Please log in to access this page.")

	resp, _ = app.get(t, reader, "/delete/1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreatePost_DuplicateTitle(t *testing.T) {
	app := newTestApp(t)
	admin := app.register(t, "admin@example.com", "Admin")
	app.createPost(t, admin, "Only once")

	resp, _ := app.post(t, admin, "/new-post", url.Values{
		"title":    {"Only once"},
		"subtitle": {"Again"},
		"img_url":  {"https://img.example/b.png"},
		"body":     {"<p>again</p>"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/new-post", resp.Header.Get("Location"))
	assert.Equal(t, int64(1), app.count(t, &models.Post{}))
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	admin := app.register(t, "admin@example.com", "Admin")
	post := app.createPost(t, admin, "Draft")

	resp, body := app.get(t, admin, fmt.Sprintf("/edit-post/%d", post.Id))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Draft"`)

	resp, _ = app.post(t, admin, fmt.Sprintf("/edit-post/%d", post.Id), url.Values{
		"title":    {"Final"},
		"subtitle": {"Polished"},
		"img_url":  {"https://img.example/c.png"},
		"body":     {"<p>done</p>"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/post/%d", post.Id), resp.Header.Get("Location"))

	var updated models.Post
	require.NoError(t, app.db.First(&updated, post.Id).Error)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, post.Date, updated.Date)
	assert.Equal(t, post.AuthorId, updated.AuthorId)
}

func TestComment_LengthCapAndLogin(t *testing.T) {
	app := newTestApp(t)
	admin := app.register(t, "admin@example.com", "Admin")
	reader := app.register(t, "reader@example.com", "Reader")
	post := app.createPost(t, admin, "Comment on me")
	postPath := fmt.Sprintf("/post/%d", post.Id)

	resp, _ := app.post(t, app.client(t), postPath, url.Values{"comment": {"hi"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/register", resp.Header.Get("Location"))
	assert.Equal(t, int64(0), app.count(t, &models.Comment{}))

	resp, _ = app.post(t, reader, postPath, url.Values{"comment": {strings.Repeat("é", models.MaxCommentLength)}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, postPath, resp.Header.Get("Location"))
	assert.Equal(t, int64(1), app.count(t, &models.Comment{}))

	resp, _ = app.post(t, reader, postPath, url.Values{"comment": {strings.Repeat("a", models.MaxCommentLength+1)}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, int64(1), app.count(t, &models.Comment{}))

	_, body := app.get(t, reader, postPath)
	assert.Contains(t, body, "Comments are limited to 350 characters")
	assert.Contains(t, body, "1 Comment")
	assert.Contains(t, body, "https://www.gravatar.com/avatar/")
}

func TestComment_IsEscaped(t *testing.T) {
	app := newTestApp(t)
	admin := app.register(t, "admin@example.com", "Admin")
	post := app.createPost(t, admin, "Escaping")
	postPath := fmt.Sprintf("/post/%d", post.Id)

	app.post(t, admin, postPath, url.Values{"comment": {"<script>alert(1)</script>"}})

	_, body := app.get(t, admin, postPath)
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "<p>Hello there</p>")
}

func TestDeletePost_RemovesComments(t *testing.T) {
	app := newTestApp(t)
	admin := app.register(t, "admin@example.com", "Admin")
	post := app.createPost(t, admin, "Short lived")
	app.post(t, admin, fmt.Sprintf("/post/%d", post.Id), url.Values{"comment": {"first"}})
	app.post(t, admin, fmt.Sprintf("/post/%d", post.Id), url.Values{"comment": {"second"}})
	require.Equal(t, int64(2), app.count(t, &models.Comment{}))

	_, body := app.get(t, admin, fmt.Sprintf("/post/%d", post.Id))
	assert.Contains(t, body, "2 Comments")

	resp, _ := app.get(t, admin, fmt.Sprintf("/delete/%d", post.Id))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, int64(0), app.count(t, &models.Post{}))
	assert.Equal(t, int64(0), app.count(t, &models.Comment{}))

	resp, _ = app.get(t, admin, fmt.Sprintf("/post/%d", post.Id))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = app.get(t, admin, fmt.Sprintf("/delete/%d", post.Id))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearch_RecordsCountersAndPaginates(t *testing.T) {
	app := newTestApp(t)
	app.news.articles = testArticles(30)
	user := app.register(t, "ada@example.com", "Ada")

	resp, _ := app.post(t, user, "/", url.Values{"search": {"  bitcoin "}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/search/bitcoin", resp.Header.Get("Location"))

	app.post(t, app.client(t), "/", url.Values{"search": {"BITCOIN"}})

	var total models.TotalSearchCount
	require.NoError(t, app.db.Where("search_item = ?", "Bitcoin").First(&total).Error)
	assert.Equal(t, int64(2), total.TotalSearchCount)

	var mine models.SearchCount
	require.NoError(t, app.db.Where("search_item = ?", "Bitcoin").First(&mine).Error)
	assert.Equal(t, int64(1), mine.SearchCount)

	resp, body := app.get(t, user, "/search/bitcoin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Story 20</h2>")
	assert.NotContains(t, body, "Story 21</h2>")
	assert.Contains(t, body, "/search/bitcoin/page-2")

	resp, body = app.get(t, user, "/search/bitcoin/page-2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Story 21</h2>")
	assert.Contains(t, body, "Story 30</h2>")
	assert.NotContains(t, body, "Story 20</h2>")

	_, body = app.get(t, user, "/")
	assert.Contains(t, body, "Your top searches")
	assert.Contains(t, body, `<a href="/search/Bitcoin">Bitcoin</a> (2)`)
}

func TestSearch_EmptyTermRerendersListing(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.post(t, app.client(t), "/", url.Values{"search": {"   "}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "This field is required.")
	assert.Equal(t, int64(0), app.count(t, &models.TotalSearchCount{}))
}

func TestSearch_NewsFailureRedirectsHome(t *testing.T) {
	app := newTestApp(t)
	app.news.err = newsapi.ErrUpstream
	c := app.client(t)

	resp, _ := app.get(t, c, "/search/anything")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body := app.get(t, c, "/")
	assert.Contains(t, body, "Something went wrong, search again")
}

func TestSearch_EscapedQueryRoundTrips(t *testing.T) {
	app := newTestApp(t)
	app.news.articles = testArticles(1)

	c := app.client(t)
	for _, query := range []string{"AC/DC tour", "AC/DC + Metallica", "C++", "tax, 2+2"} {
		resp, _ := app.get(t, c, search.SearchPath(query))
		assert.Equal(t, http.StatusOK, resp.StatusCode, query)
	}
	assert.Equal(t, []string{"AC/DC tour", "AC/DC + Metallica", "C++", "tax, 2+2"}, app.news.queries)
}

func TestImportArticle_TitleWithPlusAndComma(t *testing.T) {
	app := newTestApp(t)
	app.news.articles = []newsapi.Article{{
		Source: newsapi.Source{Name: "Wire"},
		Title:  "Disney+, Hulu raise prices",
		Url:    "https://news.example/disney",
	}}
	admin := app.register(t, "admin@example.com", "Admin")

	resp, _ := app.get(t, admin, search.ImportPath("AC/DC + streaming", "Disney+, Hulu raise prices"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, []string{"AC/DC + streaming"}, app.news.queries)

	var post models.Post
	require.NoError(t, app.db.Where("title = ?", "Disney+, Hulu raise prices").First(&post).Error)
	assert.Equal(t, fmt.Sprintf("/post/%d", post.Id), resp.Header.Get("Location"))
}

func TestImportArticle(t *testing.T) {
	app := newTestApp(t)
	app.news.articles = testArticles(5)
	admin := app.register(t, "admin@example.com", "Admin")

	resp, _ := app.get(t, admin, search.ImportPath("bitcoin", "Story 3"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var post models.Post
	require.NoError(t, app.db.Where("title = ?", "Story 3").First(&post).Error)
	assert.Equal(t, fmt.Sprintf("/post/%d", post.Id), resp.Header.Get("Location"))
	assert.Equal(t, "About story 3", post.Subtitle)
	assert.Equal(t, "https://news.example/3.png", post.ImgUrl)
	assert.Contains(t, post.Body, "https://news.example/3")
	assert.Contains(t, post.Body, "Wire")
	assert.NotEmpty(t, post.Date)

	resp, _ = app.get(t, admin, search.ImportPath("bitcoin", "Story 3"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, int64(1), app.count(t, &models.Post{}))
}

func TestImportArticle_NoMatchWritesNothing(t *testing.T) {
	app := newTestApp(t)
	app.news.articles = testArticles(5)
	admin := app.register(t, "admin@example.com", "Admin")

	resp, body := app.get(t, admin, search.ImportPath("bitcoin", "Vanished story"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, int64(0), app.count(t, &models.Post{}))
}

func TestImportArticle_RequiresAdmin(t *testing.T) {
	app := newTestApp(t)
	app.news.articles = testArticles(5)
	app.register(t, "admin@example.com", "Admin")
	reader := app.register(t, "reader@example.com", "Reader")

	resp, _ := app.get(t, reader, search.ImportPath("bitcoin", "Story 1"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, app.news.queries)
}

func TestContact(t *testing.T) {
	app := newTestApp(t)
	form := url.Values{
		"name":    {"Grace"},
		"email":   {"grace@example.com"},
		"phone":   {"555-0100"},
		"message": {"Hello!"},
	}

	resp, body := app.post(t, app.client(t), "/contact", form)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Successfully sent your message")
	require.Len(t, app.notifier.sent, 1)
	assert.Equal(t, "Hello!", app.notifier.sent[0].Message)

	app.notifier.err = errors.New("smtp down")
	resp, body = app.post(t, app.client(t), "/contact", form)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Your message could not be sent.")
}

func TestAPI(t *testing.T) {
	app := newTestApp(t)
	admin := app.register(t, "admin@example.com", "Admin")
	post := app.createPost(t, admin, "Via JSON")
	app.post(t, admin, fmt.Sprintf("/post/%d", post.Id), url.Values{"comment": {"nice"}})

	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/api/posts", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://elsewhere.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var list struct {
		Success bool              `json:"success"`
		Data    []dto.PostSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.True(t, list.Success)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Admin", list.Data[0].Author)

	_, body = app.get(t, app.client(t), fmt.Sprintf("/api/posts/%d", post.Id))
	var detail struct {
		Data dto.PostDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &detail))
	require.Len(t, detail.Data.Comments, 1)
	assert.Equal(t, "nice", detail.Data.Comments[0].Comment)
	assert.Equal(t, utilities.GravatarURL("admin@example.com", 100), detail.Data.Comments[0].Gravatar)

	resp, _ = app.get(t, app.client(t), "/api/posts/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotFoundAndStaticPages(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	resp, body := app.get(t, c, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "404")

	resp, _ = app.get(t, c, "/post/not-a-number")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = app.get(t, c, "/about")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "About Me")

	resp, _ = app.get(t, c, "/static/css/styles.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
