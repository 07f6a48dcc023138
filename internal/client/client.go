// Package client 通过 burnit 的 REST 接口实现账本的同步适配器。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Chadbowen248/burnit/internal/ledger"
	"github.com/Chadbowen248/burnit/internal/service"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "http://localhost:3001"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a burnit server and satisfies ledger.Syncer.
type Client struct {
	http    httpDoer
	baseURL string
	log     *zap.Logger
}

var _ ledger.Syncer = (*Client)(nil)

// New 构造客户端，baseURL 为空时指向本机默认端口
func New(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		http: &http.Client{Timeout: defaultTimeout},
		log:  log,
	}
	c.SetBaseURL(baseURL)
	return c
}

func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
		return
	}
	c.http = client
}

func (c *Client) SetBaseURL(base string) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = defaultBaseURL
	}
	c.baseURL = base
}

// foodWire 与服务端 foods 接口的 JSON 结构一致
type foodWire struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Date       string  `json:"date"`
	MealType   string  `json:"meal_type"`
	IsFavorite bool    `json:"is_favorite"`
	USDAID     *string `json:"usda_id"`
}

func (w foodWire) entry() ledger.FoodEntry {
	entry := ledger.FoodEntry{
		Ref:        ledger.Persisted(w.ID),
		Name:       w.Name,
		Calories:   w.Calories,
		Protein:    w.Protein,
		Carbs:      w.Carbs,
		Fat:        w.Fat,
		Quantity:   w.Quantity,
		Unit:       w.Unit,
		Date:       w.Date,
		MealType:   ledger.MealType(w.MealType),
		IsFavorite: w.IsFavorite,
	}
	if w.USDAID != nil {
		entry.SourceID = *w.USDAID
	}
	return entry
}

func entryWire(entry ledger.FoodEntry) foodWire {
	wire := foodWire{
		Name:       entry.Name,
		Calories:   entry.Calories,
		Protein:    entry.Protein,
		Carbs:      entry.Carbs,
		Fat:        entry.Fat,
		Quantity:   entry.Quantity,
		Unit:       entry.Unit,
		Date:       entry.Date,
		MealType:   string(entry.MealType),
		IsFavorite: entry.IsFavorite,
	}
	if entry.SourceID != "" {
		id := entry.SourceID
		wire.USDAID = &id
	}
	return wire
}

// patchWire 只序列化需要修改的字段
func patchWire(patch ledger.EntryPatch) map[string]any {
	body := make(map[string]any)
	if patch.Name != nil {
		body["name"] = *patch.Name
	}
	if patch.Calories != nil {
		body["calories"] = *patch.Calories
	}
	if patch.Protein != nil {
		body["protein"] = *patch.Protein
	}
	if patch.Carbs != nil {
		body["carbs"] = *patch.Carbs
	}
	if patch.Fat != nil {
		body["fat"] = *patch.Fat
	}
	if patch.Quantity != nil {
		body["quantity"] = *patch.Quantity
	}
	if patch.Unit != nil {
		body["unit"] = *patch.Unit
	}
	if patch.Date != nil {
		body["date"] = *patch.Date
	}
	if patch.MealType != nil {
		body["meal_type"] = string(*patch.MealType)
	}
	if patch.IsFavorite != nil {
		body["is_favorite"] = *patch.IsFavorite
	}
	if patch.SourceID != nil {
		body["usda_id"] = *patch.SourceID
	}
	return body
}

type goalWire struct {
	Date      string  `json:"date"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
	IsDefault bool    `json:"is_default,omitempty"`
}

type favoriteWire struct {
	ID       uint    `json:"id,omitempty"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	MealType string  `json:"meal_type"`
	USDAID   string  `json:"usda_id,omitempty"`
	Preset   bool    `json:"preset,omitempty"`
}

func (w favoriteWire) favorite() ledger.FavoriteFood {
	return ledger.FavoriteFood{
		ID:       w.ID,
		Name:     w.Name,
		Calories: w.Calories,
		Protein:  w.Protein,
		Carbs:    w.Carbs,
		Fat:      w.Fat,
		Quantity: w.Quantity,
		Unit:     w.Unit,
		MealType: ledger.MealType(w.MealType),
		SourceID: w.USDAID,
		Preset:   w.Preset,
	}
}

func (c *Client) CreateEntry(ctx context.Context, entry ledger.FoodEntry) (ledger.FoodEntry, error) {
	var created foodWire
	if err := c.do(ctx, http.MethodPost, "/api/foods", nil, entryWire(entry), &created); err != nil {
		return ledger.FoodEntry{}, err
	}
	return created.entry(), nil
}

// UpdateEntry 返回服务端保存后的条目；旧版服务端不回传 food 时返回零值
func (c *Client) UpdateEntry(ctx context.Context, id uint, patch ledger.EntryPatch) (ledger.FoodEntry, error) {
	var resp struct {
		Food *foodWire `json:"food"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/foods/"+formatID(id), nil, patchWire(patch), &resp); err != nil {
		return ledger.FoodEntry{}, err
	}
	if resp.Food == nil {
		return ledger.FoodEntry{}, nil
	}
	return resp.Food.entry(), nil
}

func (c *Client) DeleteEntry(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/api/foods/"+formatID(id), nil, nil, nil)
}

func (c *Client) DeleteDay(ctx context.Context, date string) error {
	return c.do(ctx, http.MethodDelete, "/api/days/"+url.PathEscape(date), nil, nil, nil)
}

func (c *Client) ListEntries(ctx context.Context, date string, filter ledger.EntryFilter) ([]ledger.FoodEntry, error) {
	query := url.Values{}
	query.Set("date", date)
	if filter.MealType != "" {
		query.Set("meal_type", string(filter.MealType))
	}
	if filter.IsFavorite != nil {
		query.Set("is_favorite", strconv.FormatBool(*filter.IsFavorite))
	}

	var items []foodWire
	if err := c.do(ctx, http.MethodGet, "/api/foods", query, nil, &items); err != nil {
		return nil, err
	}
	entries := make([]ledger.FoodEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, item.entry())
	}
	return entries, nil
}

func (c *Client) GetGoal(ctx context.Context, date string) (ledger.Goal, error) {
	var goal goalWire
	if err := c.do(ctx, http.MethodGet, "/api/goals/"+url.PathEscape(date), nil, nil, &goal); err != nil {
		return ledger.Goal{}, err
	}
	return ledger.Goal{Date: goal.Date, Calories: goal.Calories, Protein: goal.Protein, Carbs: goal.Carbs, Fat: goal.Fat}, nil
}

func (c *Client) SetGoal(ctx context.Context, goal ledger.Goal) (ledger.Goal, error) {
	var stored goalWire
	body := goalWire{Date: goal.Date, Calories: goal.Calories, Protein: goal.Protein, Carbs: goal.Carbs, Fat: goal.Fat}
	if err := c.do(ctx, http.MethodPost, "/api/goals", nil, body, &stored); err != nil {
		return ledger.Goal{}, err
	}
	return ledger.Goal{Date: stored.Date, Calories: stored.Calories, Protein: stored.Protein, Carbs: stored.Carbs, Fat: stored.Fat}, nil
}

// ListFavorites 只返回用户收藏，服务端附带的预设由调用方自行合并
func (c *Client) ListFavorites(ctx context.Context) ([]ledger.FavoriteFood, error) {
	var items []favoriteWire
	if err := c.do(ctx, http.MethodGet, "/api/favorites", nil, nil, &items); err != nil {
		return nil, err
	}
	favorites := make([]ledger.FavoriteFood, 0, len(items))
	for _, item := range items {
		if item.Preset {
			continue
		}
		favorites = append(favorites, item.favorite())
	}
	return favorites, nil
}

func (c *Client) CreateFavorite(ctx context.Context, food ledger.FavoriteFood) (ledger.FavoriteFood, error) {
	body := favoriteWire{
		Name:     food.Name,
		Calories: food.Calories,
		Protein:  food.Protein,
		Carbs:    food.Carbs,
		Fat:      food.Fat,
		Quantity: food.Quantity,
		Unit:     food.Unit,
		MealType: string(food.MealType),
		USDAID:   food.SourceID,
	}
	var stored favoriteWire
	if err := c.do(ctx, http.MethodPost, "/api/favorites", nil, body, &stored); err != nil {
		return ledger.FavoriteFood{}, err
	}
	return stored.favorite(), nil
}

func (c *Client) DeleteFavorite(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/api/favorites/"+formatID(id), nil, nil, nil)
}

// Search 调用服务端的食物检索代理
func (c *Client) Search(ctx context.Context, query string) ([]service.FoodSearchResult, error) {
	params := url.Values{}
	params.Set("q", query)

	var results []service.FoodSearchResult
	if err := c.do(ctx, http.MethodGet, "/api/search", params, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Report 返回某一天的 markdown 报告
func (c *Client) Report(ctx context.Context, date string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/report/"+url.PathEscape(date), nil, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read report: %v", ledger.ErrNetwork, err)
	}
	return string(raw), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode request: %v", ledger.ErrValidation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send 执行请求，非 2xx 响应转换为错误分类中的哨兵错误
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("burnit request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s %s: %v", ledger.ErrNetwork, req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	message := errorMessage(resp.Body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return nil, fmt.Errorf("%w: %s", statusError(resp.StatusCode), message)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ledger.ErrServer, path, err)
	}
	return nil
}

func statusError(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ledger.ErrValidation
	case status == http.StatusNotFound:
		return ledger.ErrNotFound
	case status == http.StatusConflict:
		return ledger.ErrBusy
	default:
		return ledger.ErrServer
	}
}

func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
