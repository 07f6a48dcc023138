package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// USDA FoodData Central 中使用的营养素编号
const (
	nutrientEnergyKcal = 1008
	nutrientProtein    = 1003
	nutrientCarbs      = 1005
	nutrientFat        = 1004

	defaultUSDABaseURL  = "https://api.nal.usda.gov/fdc/v1"
	defaultUSDAPageSize = 15
)

var (
	// ErrSearchQueryEmpty 在搜索关键词为空时返回
	ErrSearchQueryEmpty = errors.New("search query is required")
	// ErrUSDAUnavailable 在上游接口失败或返回异常时返回
	ErrUSDAUnavailable = errors.New("usda search unavailable")
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FoodSearchResult 是一条外部食物数据库的检索结果，营养值按每份四舍五入
type FoodSearchResult struct {
	FdcID       int     `json:"fdcId"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	ServingSize string  `json:"servingSize"`
}

type usdaSearchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FdcID           int     `json:"fdcId"`
	Description     string  `json:"description"`
	BrandName       string  `json:"brandName"`
	BrandOwner      string  `json:"brandOwner"`
	ServingSize     float64 `json:"servingSize"`
	ServingSizeUnit string  `json:"servingSizeUnit"`
	FoodNutrients   []struct {
		NutrientID int     `json:"nutrientId"`
		Value      float64 `json:"value"`
	} `json:"foodNutrients"`
}

// USDAClient 调用 USDA FoodData Central 的食物搜索接口
type USDAClient struct {
	http     httpDoer
	baseURL  string
	apiKey   string
	pageSize int
	log      *zap.Logger
}

// NewUSDAClient 构造客户端，apiKey 为空时使用 DEMO_KEY
func NewUSDAClient(apiKey, baseURL string, log *zap.Logger) *USDAClient {
	if log == nil {
		log = zap.NewNop()
	}
	client := &USDAClient{
		http:     &http.Client{Timeout: 10 * time.Second},
		apiKey:   strings.TrimSpace(apiKey),
		pageSize: defaultUSDAPageSize,
		log:      log,
	}
	if client.apiKey == "" {
		client.apiKey = "DEMO_KEY"
	}
	client.SetBaseURL(baseURL)
	return client
}

func (c *USDAClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
		return
	}
	c.http = client
}

func (c *USDAClient) SetBaseURL(base string) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = defaultUSDABaseURL
	}
	c.baseURL = base
}

// Search 按关键词检索食物
func (c *USDAClient) Search(ctx context.Context, query string) ([]FoodSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryEmpty
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("dataType", "Foundation,SR Legacy,Branded")

	endpoint := c.baseURL + "/foods/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build usda request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "burnit/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error 会带上完整 URL，其中包含 api_key
		cause := err
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			cause = urlErr.Err
		}
		c.log.Warn("usda search failed",
			zap.String("query", query),
			zap.String("path", req.URL.Path),
			zap.NamedError("error", cause),
		)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUSDAUnavailable, req.Method, req.URL.Path, cause)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUSDAUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("usda search rejected",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", ErrUSDAUnavailable, resp.StatusCode)
	}

	var payload usdaSearchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUSDAUnavailable, err)
	}

	results := make([]FoodSearchResult, 0, len(payload.Foods))
	for _, food := range payload.Foods {
		results = append(results, food.toResult())
	}
	return results, nil
}

func (f usdaFood) toResult() FoodSearchResult {
	serving := "100g"
	if f.ServingSize > 0 {
		unit := strings.TrimSpace(f.ServingSizeUnit)
		if unit == "" {
			unit = "g"
		}
		serving = strconv.FormatFloat(f.ServingSize, 'f', -1, 64) + unit
	}

	brand := strings.TrimSpace(f.BrandName)
	if brand == "" {
		brand = strings.TrimSpace(f.BrandOwner)
	}

	return FoodSearchResult{
		FdcID:       f.FdcID,
		Name:        strings.TrimSpace(f.Description),
		Brand:       brand,
		Calories:    f.nutrient(nutrientEnergyKcal),
		Protein:     f.nutrient(nutrientProtein),
		Carbs:       f.nutrient(nutrientCarbs),
		Fat:         f.nutrient(nutrientFat),
		ServingSize: serving,
	}
}

func (f usdaFood) nutrient(id int) float64 {
	for _, n := range f.FoodNutrients {
		if n.NutrientID == id {
			return math.Round(n.Value)
		}
	}
	return 0
}
