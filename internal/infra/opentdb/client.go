// Package opentdb is a client for the Open Trivia DB question API.
package opentdb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	xhtml "golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/random"
)

const DefaultBaseURL = "https://opentdb.com"

// Encoding is the text encoding requested from the API.
type Encoding string

const (
	EncodingHTML    Encoding = "" // API default, HTML entities
	EncodingURL3986 Encoding = "url3986"
	EncodingBase64  Encoding = "base64"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected http status")
	ErrResponseCode     = errors.New("trivia api returned an error code")
)

// ResponseCodeError carries a non-zero response_code from the API.
type ResponseCodeError struct {
	Code int
}

func (e *ResponseCodeError) Error() string {
	return fmt.Sprintf("trivia api response code %d", e.Code)
}

func (e *ResponseCodeError) Unwrap() error {
	return ErrResponseCode
}

// Client fetches multiple choice questions from Open Trivia DB.
type Client struct {
	baseURL    string
	httpClient *http.Client
	encoding   Encoding
	rng        *random.Rand
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEncoding selects the text encoding requested from the API.
func WithEncoding(e Encoding) Option {
	return func(c *Client) { c.encoding = e }
}

// WithRand sets the source used to shuffle answer options.
func WithRand(r *random.Rand) Option {
	return func(c *Client) { c.rng = r }
}

// WithIDGenerator sets the function that assigns question ids.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// NewClient creates a Client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		rng:        random.NewSeeded(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

// FetchQuestions requests amount multiple choice questions. remoteCategory 0 means any category.
func (c *Client) FetchQuestions(ctx context.Context, amount, remoteCategory int) ([]entities.Question, error) {
	endpoint, err := c.buildURL(amount, remoteCategory)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, resp.Status)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if body.ResponseCode != 0 {
		return nil, &ResponseCodeError{Code: body.ResponseCode}
	}

	questions := make([]entities.Question, 0, len(body.Results))
	for _, raw := range body.Results {
		q, err := c.toQuestion(raw)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, nil
}

func (c *Client) buildURL(amount, remoteCategory int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	u = u.JoinPath("api.php")

	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	params.Set("type", "multiple")
	if remoteCategory > 0 {
		params.Set("category", strconv.Itoa(remoteCategory))
	}
	if c.encoding != EncodingHTML {
		params.Set("encode", string(c.encoding))
	}
	u.RawQuery = params.Encode()

	return u.String(), nil
}

func (c *Client) toQuestion(raw apiQuestion) (entities.Question, error) {
	text, err := c.decode(raw.Question)
	if err != nil {
		return entities.Question{}, err
	}
	category, err := c.decode(raw.Category)
	if err != nil {
		return entities.Question{}, err
	}
	difficulty, err := c.decode(raw.Difficulty)
	if err != nil {
		return entities.Question{}, err
	}

	answers := make([]string, 0, 1+len(raw.IncorrectAnswers))
	correct, err := c.decode(raw.CorrectAnswer)
	if err != nil {
		return entities.Question{}, err
	}
	answers = append(answers, correct)
	for _, a := range raw.IncorrectAnswers {
		decoded, err := c.decode(a)
		if err != nil {
			return entities.Question{}, err
		}
		answers = append(answers, decoded)
	}

	options, correctIndex := c.shuffleOptions(answers)

	return entities.Question{
		ID:           c.newID(),
		Category:     CategorySlug(category),
		Difficulty:   entities.ParseDifficulty(difficulty),
		Text:         text,
		Options:      options,
		CorrectIndex: correctIndex,
	}, nil
}

// shuffleOptions shuffles answers whose first element is the correct one.
// The correct index follows the position, not the text, so duplicate texts stay unambiguous.
func (c *Client) shuffleOptions(answers []string) ([]string, int) {
	perm := c.rng.Perm(len(answers))
	options := make([]string, len(answers))
	correctIndex := 0
	for i, src := range perm {
		options[i] = answers[src]
		if src == 0 {
			correctIndex = i
		}
	}
	return options, correctIndex
}

func (c *Client) decode(s string) (string, error) {
	var out string
	switch c.encoding {
	case EncodingURL3986:
		decoded, err := url.PathUnescape(s)
		if err != nil {
			return "", fmt.Errorf("decode url3986 text: %w", err)
		}
		out = decoded
	case EncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", fmt.Errorf("decode base64 text: %w", err)
		}
		out = string(decoded)
	default:
		out = xhtml.UnescapeString(s)
	}
	return norm.NFC.String(out), nil
}
