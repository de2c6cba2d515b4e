package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/polarhive/timetable-backend/internal/model"
)

// Sentinel errors for the two failure classes the portal produces. Handlers
// map these onto HTTP statuses.
var (
	ErrAuthentication = errors.New("portal authentication failed")
	ErrScrape         = errors.New("timetable scraping failed")
)

var (
	csrfJSRe   = regexp.MustCompile(`_csrf['"]?\s*[:=]\s*['"]([0-9a-fA-F-]{8,})['"]`)
	csrfUUIDRe = regexp.MustCompile(`(?i)([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})`)
)

// Client is a logged-in session against the student portal. One Client
// serves one credential pair; it is not safe for concurrent use.
type Client struct {
	http      *http.Client
	baseURL   string
	username  string
	password  string
	csrfToken string
	log       zerolog.Logger
}

// NewClient builds a portal client with a fresh cookie jar. Call Login
// before fetching.
func NewClient(baseURL, username, password string, timeout time.Duration, log zerolog.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		log:      log.With().Str("component", "scraper").Logger(),
	}
}

// Login performs the Spring-Security form login: fetch the landing page,
// locate the login form and its hidden inputs, pick a CSRF token (form value,
// then page token, then cookie), POST the credentials, and detect failure by
// the login form reappearing in the final response.
func (c *Client) Login(ctx context.Context) error {
	landing, landingBody, err := c.get(ctx, c.baseURL+"/")
	if err != nil {
		return fmt.Errorf("%w: landing page: %v", ErrAuthentication, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(landingBody))
	if err != nil {
		return fmt.Errorf("%w: parse landing page: %v", ErrAuthentication, err)
	}

	form := findLoginForm(doc)
	action := "/j_spring_security_check"
	payload := url.Values{}
	if form != nil {
		if a, ok := form.Attr("action"); ok && a != "" {
			action = a
		}
		form.Find("input").Each(func(_ int, in *goquery.Selection) {
			name, _ := in.Attr("name")
			if name == "" || name == "j_username" || name == "j_password" {
				return
			}
			value, _ := in.Attr("value")
			payload.Set(name, value)
		})
	}

	csrf := payload.Get("_csrf")
	if csrf == "" {
		csrf, _ = extractCSRFToken(landingBody)
	}
	if csrf == "" {
		csrf = c.cookieCSRF()
	}
	if csrf == "" {
		return fmt.Errorf("%w: no csrf token on login page", ErrAuthentication)
	}

	payload.Set("_csrf", csrf)
	payload.Set("j_username", c.username)
	payload.Set("j_password", c.password)

	loginURL := action
	if !strings.HasPrefix(action, "http") {
		loginURL = c.baseURL + "/" + strings.TrimPrefix(action, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(payload.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", landing.Request.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: login post: %v", ErrAuthentication, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("%w: login response: %v", ErrAuthentication, err)
	}

	lower := strings.ToLower(body)
	if strings.Contains(lower, "j_username") ||
		strings.Contains(lower, "j_spring_security_check") ||
		(strings.Contains(lower, "invalid") && strings.Contains(lower, "login")) {
		return fmt.Errorf("%w: login form detected after post", ErrAuthentication)
	}

	token, err := c.prepareProfileContext(ctx, body)
	if err != nil {
		// Cookie token is an acceptable fallback when preparation fails.
		token = c.cookieCSRF()
		if token == "" {
			return err
		}
	}
	c.csrfToken = token

	c.log.Debug().Msg("authenticated against portal")
	return nil
}

// FetchTimetable loads and parses the admin timetable page for the logged-in
// student.
func (c *Client) FetchTimetable(ctx context.Context) (model.RawWeek, error) {
	if c.csrfToken == "" {
		token, err := c.prepareProfileContext(ctx, "")
		if err != nil {
			return model.RawWeek{}, err
		}
		c.csrfToken = token
	}

	params := url.Values{
		"menuId":         {"669"},
		"url":            {"studentProfilePESUAdmin"},
		"controllerMode": {"6415"},
		"actionType":     {"5"},
		"id":             {"0"},
		"selectedData":   {"0"},
		"_":              {strconv.FormatInt(time.Now().UnixMilli(), 10)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/s/studentProfilePESUAdmin?"+params.Encode(), nil)
	if err != nil {
		return model.RawWeek{}, fmt.Errorf("%w: %v", ErrScrape, err)
	}
	c.setAjaxHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.RawWeek{}, fmt.Errorf("%w: fetch timetable: %v", ErrScrape, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return model.RawWeek{}, fmt.Errorf("%w: read timetable page: %v", ErrScrape, err)
	}
	if resp.StatusCode >= 400 {
		return model.RawWeek{}, fmt.Errorf("%w: timetable page returned %d", ErrScrape, resp.StatusCode)
	}

	return ParseAdminPage(body)
}

// Logout terminates the portal session. Best effort; errors are logged only.
func (c *Client) Logout(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/logout", nil)
	if err != nil {
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("logout failed")
		return
	}
	resp.Body.Close()
}

// prepareProfileContext performs the minimal request sequence that primes the
// student profile on the server and returns a CSRF token usable for AJAX
// calls. pageBody, when non-empty, is reused instead of fetching the profile
// page again.
func (c *Client) prepareProfileContext(ctx context.Context, pageBody string) (string, error) {
	body := pageBody
	if body == "" {
		_, fetched, err := c.get(ctx, c.baseURL+"/s/studentProfilePESU")
		if err != nil {
			return "", fmt.Errorf("%w: profile page: %v", ErrAuthentication, err)
		}
		body = fetched
	}

	token, _ := extractCSRFToken(body)
	if token == "" {
		token = c.cookieCSRF()
	}
	if token == "" {
		return "", fmt.Errorf("%w: no csrf token before profile fetch", ErrAuthentication)
	}
	c.csrfToken = token

	// Best-effort semester preparation; the timetable endpoint works without
	// it on most accounts.
	params := url.Values{"_": {strconv.FormatInt(time.Now().UnixMilli(), 10)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/a/studentProfilePESU/getStudentSemestersPESU?"+params.Encode(), nil)
	if err == nil {
		c.setAjaxHeaders(req)
		if resp, err := c.http.Do(req); err == nil {
			resp.Body.Close()
		} else {
			c.log.Debug().Err(err).Msg("semester preparation fetch failed")
		}
	}

	return token, nil
}

func (c *Client) setAjaxHeaders(req *http.Request) {
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-CSRF-Token", c.csrfToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", c.baseURL+"/s/studentProfilePESU")
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, "", err
	}
	return resp, body, nil
}

func (c *Client) cookieCSRF() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == "XSRF-TOKEN" || cookie.Name == "CSRF-TOKEN" {
			return cookie.Value
		}
	}
	return ""
}

// findLoginForm locates the form carrying the username input; the portal has
// served both j_username and plain username variants.
func findLoginForm(doc *goquery.Document) *goquery.Selection {
	var form *goquery.Selection
	doc.Find("form").EachWithBreak(func(_ int, f *goquery.Selection) bool {
		if f.Find(`input[name="j_username"]`).Length() > 0 || f.Find(`input[name="username"]`).Length() > 0 {
			form = f
			return false
		}
		return true
	})
	return form
}

// extractCSRFToken tries the known token locations in order: hidden _csrf
// input, csrf meta tags, an inline JS assignment, and finally any UUID in
// the page (the portal's observed token format).
func extractCSRFToken(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		if v, ok := doc.Find(`input[name="_csrf"]`).Attr("value"); ok && v != "" {
			return v, nil
		}
		for _, name := range []string{"_csrf", "csrf-token", "csrf"} {
			if v, ok := doc.Find(`meta[name="`+name+`"]`).Attr("content"); ok && v != "" {
				return v, nil
			}
		}
	}
	if m := csrfJSRe.FindStringSubmatch(html); m != nil {
		return m[1], nil
	}
	if m := csrfUUIDRe.FindStringSubmatch(html); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: csrf token not found in response", ErrAuthentication)
}

func readBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
