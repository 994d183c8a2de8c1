package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	apperrors "github.com/shopmate-ai/shopmate/internal/errors"
)

// Config configures the catalog client.
type Config struct {
	// StoreDomain is the myshopify host, e.g. "acme.myshopify.com".
	StoreDomain string

	// APIVersion is the Admin API version, e.g. "2023-07".
	APIVersion string

	// Token is the admin API access token.
	Token string

	// Timeout bounds every call. Required: a turn cannot answer until the
	// catalog returns, so an unbounded call would hang the session.
	Timeout time.Duration

	// DetailCacheTTL controls product-detail reuse. Zero disables caching.
	DetailCacheTTL time.Duration

	// BaseURL overrides the endpoint entirely (tests).
	BaseURL string

	Logger *zap.Logger
}

// Client talks to the Shopify Admin GraphQL API.
type Client struct {
	endpoint    string
	token       string
	httpClient  *http.Client
	detailCache *gocache.Cache
	converter   *md.Converter
	logger      *zap.Logger
}

// New creates a catalog client.
func New(cfg Config) *Client {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", cfg.StoreDomain, cfg.APIVersion)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var cache *gocache.Cache
	if cfg.DetailCacheTTL > 0 {
		cache = gocache.New(cfg.DetailCacheTTL, 2*cfg.DetailCacheTTL)
	}

	return &Client{
		endpoint:    endpoint,
		token:       cfg.Token,
		httpClient:  &http.Client{Timeout: timeout},
		detailCache: cache,
		converter:   md.NewConverter("", true, nil),
		logger:      logger,
	}
}

// ============================================================
// Operations
// ============================================================

// SearchByText searches products by title, SKU, or tag. When the exact-term
// search comes back empty, a second pass widens each word to a wildcard
// term before giving up.
func (c *Client) SearchByText(ctx context.Context, text string) (MatchSet, error) {
	matches, err := c.runSummarySearch(ctx, 10, fmt.Sprintf("title:%s OR sku:%s OR tag:%s", text, text, text))
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return matches, nil
	}

	var terms []string
	for _, word := range strings.Fields(text) {
		if len(word) >= 2 {
			terms = append(terms, fmt.Sprintf("title:*%s*", word), fmt.Sprintf("sku:*%s*", word))
		}
	}
	terms = append(terms, fmt.Sprintf("title:*%s*", text), fmt.Sprintf("sku:*%s*", text))

	return c.runSummarySearch(ctx, 20, strings.Join(terms, " OR "))
}

// SearchByCriteria searches products by status and/or product category.
// Category matches either the product type or a tag, and results are
// re-filtered client side because the catalog's tag search is a prefix
// match.
func (c *Client) SearchByCriteria(ctx context.Context, status, category string) (MatchSet, error) {
	var conditions []string
	if status != "" {
		conditions = append(conditions, "status:"+status)
	}
	if category != "" {
		conditions = append(conditions, fmt.Sprintf("(product_type:%s OR tag:%s)", category, category))
	}

	queryString := "*"
	if len(conditions) > 0 {
		queryString = strings.Join(conditions, " AND ")
	}

	matches, err := c.runRichSearch(ctx, queryString)
	if err != nil {
		return nil, err
	}

	if category == "" {
		return matches, nil
	}

	wanted := strings.ToLower(category)
	filtered := matches[:0]
	for _, p := range matches {
		if summaryMatchesCategory(p, wanted) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// SearchByDate searches products by creation date.
func (c *Client) SearchByDate(ctx context.Context, cond DateCondition, date string) (MatchSet, error) {
	var filter string
	switch cond {
	case DateAfter:
		filter = "created_at:>" + date
	case DateBefore:
		filter = "created_at:<" + date
	case DateOn:
		filter = "created_at:" + date
	default:
		return MatchSet{}, nil
	}

	return c.runRichSearch(ctx, filter)
}

// FetchDetail fetches the full product record by id, served from the TTL
// cache when warm.
func (c *Client) FetchDetail(ctx context.Context, id string) (*ProductDetail, error) {
	if c.detailCache != nil {
		if cached, ok := c.detailCache.Get(id); ok {
			return cached.(*ProductDetail), nil
		}
	}

	var resp struct {
		Product *productNode `json:"product"`
	}
	if err := c.execute(ctx, productDetailQuery, map[string]any{"id": id}, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, apperrors.NoCatalogMatch(id)
	}

	detail := resp.Product.toDetail(c.converter)

	if c.detailCache != nil {
		c.detailCache.SetDefault(id, detail)
	}
	return detail, nil
}

// InventoryUpdateTime fetches the last-modified time of an inventory item.
// The catalog does not track cost-specific update times, so the item's
// general update time stands in for it.
func (c *Client) InventoryUpdateTime(ctx context.Context, inventoryItemID string) (*InventoryTimestamp, error) {
	var resp struct {
		InventoryItem *struct {
			UpdatedAt string `json:"updatedAt"`
			UnitCost  *struct {
				Amount       string `json:"amount"`
				CurrencyCode string `json:"currencyCode"`
			} `json:"unitCost"`
		} `json:"inventoryItem"`
	}
	if err := c.execute(ctx, inventoryItemQuery, map[string]any{"id": inventoryItemID}, &resp); err != nil {
		return nil, err
	}
	if resp.InventoryItem == nil {
		return nil, apperrors.NoCatalogMatch(inventoryItemID)
	}

	ts := &InventoryTimestamp{
		UpdatedAt: resp.InventoryItem.UpdatedAt,
		Currency:  "USD",
	}
	if uc := resp.InventoryItem.UnitCost; uc != nil {
		ts.Cost = uc.Amount
		if uc.CurrencyCode != "" {
			ts.Currency = uc.CurrencyCode
		}
	}
	return ts, nil
}

// CountProducts counts every product in the catalog, following cursor
// pagination 250 at a time.
func (c *Client) CountProducts(ctx context.Context) (int, error) {
	total := 0
	cursor := ""

	for {
		vars := map[string]any{}
		if cursor != "" {
			vars["after"] = cursor
		}

		var resp struct {
			Products struct {
				Edges []struct {
					Cursor string `json:"cursor"`
				} `json:"edges"`
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
			} `json:"products"`
		}
		if err := c.execute(ctx, countPageQuery, vars, &resp); err != nil {
			return 0, err
		}

		total += len(resp.Products.Edges)
		if !resp.Products.PageInfo.HasNextPage {
			return total, nil
		}
		cursor = resp.Products.PageInfo.EndCursor
	}
}

// ============================================================
// Search plumbing
// ============================================================

func (c *Client) runSummarySearch(ctx context.Context, first int, queryString string) (MatchSet, error) {
	var resp struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID     string `json:"id"`
					Title  string `json:"title"`
					Handle string `json:"handle"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.execute(ctx, summarySearchQuery, map[string]any{"first": first, "q": queryString}, &resp); err != nil {
		return nil, err
	}

	matches := make(MatchSet, 0, len(resp.Products.Edges))
	for _, edge := range resp.Products.Edges {
		matches = append(matches, ProductSummary{
			ID:     edge.Node.ID,
			Title:  edge.Node.Title,
			Handle: edge.Node.Handle,
		})
	}
	return matches, nil
}

func (c *Client) runRichSearch(ctx context.Context, queryString string) (MatchSet, error) {
	var resp struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID          string   `json:"id"`
					Title       string   `json:"title"`
					Handle      string   `json:"handle"`
					Status      string   `json:"status"`
					ProductType string   `json:"productType"`
					Tags        []string `json:"tags"`
					Vendor      string   `json:"vendor"`
					CreatedAt   string   `json:"createdAt"`
					UpdatedAt   string   `json:"updatedAt"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.execute(ctx, richSearchQuery, map[string]any{"q": queryString}, &resp); err != nil {
		return nil, err
	}

	matches := make(MatchSet, 0, len(resp.Products.Edges))
	for _, edge := range resp.Products.Edges {
		n := edge.Node
		matches = append(matches, ProductSummary{
			ID:          n.ID,
			Title:       n.Title,
			Handle:      n.Handle,
			Status:      n.Status,
			ProductType: n.ProductType,
			Tags:        n.Tags,
			Vendor:      n.Vendor,
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
		})
	}
	return matches, nil
}

func summaryMatchesCategory(p ProductSummary, wanted string) bool {
	if strings.Contains(strings.ToLower(p.ProductType), wanted) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), wanted) {
			return true
		}
	}
	return false
}

// ============================================================
// Transport
// ============================================================

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// execute posts one GraphQL request and decodes its data payload into out.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return apperrors.CatalogUnavailable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.CatalogUnavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed", zap.Error(err))
		return apperrors.CatalogUnavailable(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.CatalogUnavailable(err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("catalog returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return apperrors.CatalogUnavailable(fmt.Errorf("status %d", resp.StatusCode))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return apperrors.CatalogUnavailable(err)
	}
	if len(envelope.Errors) > 0 {
		return apperrors.CatalogUnavailable(fmt.Errorf("graphql: %s", envelope.Errors[0].Message))
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return apperrors.CatalogUnavailable(err)
	}
	return nil
}

// ============================================================
// Queries
// ============================================================

const summarySearchQuery = `
query ProductSearch($first: Int!, $q: String!) {
  products(first: $first, query: $q) {
    edges {
      node {
        id
        title
        handle
      }
    }
  }
}`

const richSearchQuery = `
query ProductCriteriaSearch($q: String!) {
  products(first: 100, query: $q) {
    edges {
      node {
        id
        title
        handle
        status
        productType
        tags
        createdAt
        updatedAt
        vendor
      }
    }
  }
}`

const productDetailQuery = `
query ProductDetail($id: ID!) {
  product(id: $id) {
    id
    title
    handle
    createdAt
    updatedAt
    status
    vendor
    productType
    tags
    onlineStoreUrl
    descriptionHtml
    variants(first: 10) {
      edges {
        node {
          id
          sku
          title
          price
          inventoryQuantity
          inventoryItem {
            id
            unitCost {
              amount
              currencyCode
            }
            tracked
            measurement {
              weight {
                value
                unit
              }
            }
          }
        }
      }
    }
    images(first: 1) {
      edges {
        node {
          url
          altText
        }
      }
    }
  }
}`

const inventoryItemQuery = `
query InventoryItemDetail($id: ID!) {
  inventoryItem(id: $id) {
    id
    updatedAt
    unitCost {
      amount
      currencyCode
    }
    tracked
    sku
  }
}`

const countPageQuery = `
query ProductCountPage($after: String) {
  products(first: 250, after: $after) {
    edges {
      cursor
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

// ============================================================
// Wire shapes
// ============================================================

type productNode struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Handle         string   `json:"handle"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
	Status         string   `json:"status"`
	Vendor         string   `json:"vendor"`
	ProductType    string   `json:"productType"`
	Tags           []string `json:"tags"`
	OnlineStoreURL string   `json:"onlineStoreUrl"`
	DescriptionHTML string  `json:"descriptionHtml"`
	Variants       struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Images struct {
		Edges []struct {
			Node struct {
				URL string `json:"url"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
}

type variantNode struct {
	ID                string `json:"id"`
	SKU               string `json:"sku"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventoryQuantity"`
	InventoryItem     *struct {
		ID       string `json:"id"`
		UnitCost *struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"unitCost"`
		Tracked     bool `json:"tracked"`
		Measurement *struct {
			Weight *struct {
				Value float64 `json:"value"`
				Unit  string  `json:"unit"`
			} `json:"weight"`
		} `json:"measurement"`
	} `json:"inventoryItem"`
}

func (n *productNode) toDetail(converter *md.Converter) *ProductDetail {
	detail := &ProductDetail{
		ID:             n.ID,
		Title:          n.Title,
		Handle:         n.Handle,
		Status:         n.Status,
		Vendor:         n.Vendor,
		ProductType:    n.ProductType,
		Tags:           n.Tags,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
		OnlineStoreURL: n.OnlineStoreURL,
		Description:    plainDescription(converter, n.DescriptionHTML),
	}

	if len(n.Images.Edges) > 0 {
		detail.ImageURL = n.Images.Edges[0].Node.URL
	}

	for _, edge := range n.Variants.Edges {
		v := edge.Node
		variant := Variant{
			ID:                v.ID,
			SKU:               v.SKU,
			Title:             v.Title,
			Price:             v.Price,
			InventoryQuantity: v.InventoryQuantity,
		}
		if item := v.InventoryItem; item != nil {
			variant.InventoryItem.ID = item.ID
			variant.InventoryItem.Tracked = item.Tracked
			if item.UnitCost != nil {
				variant.InventoryItem.UnitCost = Money{
					Amount:   item.UnitCost.Amount,
					Currency: item.UnitCost.CurrencyCode,
				}
			}
			if item.Measurement != nil && item.Measurement.Weight != nil {
				variant.InventoryItem.Weight = Weight{
					Value: item.Measurement.Weight.Value,
					Unit:  item.Measurement.Weight.Unit,
				}
			}
		}
		detail.Variants = append(detail.Variants, variant)
	}

	return detail
}
