// internal/translate/client.go
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/http"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// cacheKeyPrefixLen bounds how much of the source text participates in the
// cache key. Prefix plus length is enough to disambiguate document labels
// without hashing arbitrarily long paragraphs.
const cacheKeyPrefixLen = 40

// Translator returns target-language text for document labels. Failures are
// never fatal: the original text is substituted.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

type request struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

type response struct {
	TranslatedText string `json:"translated_text"`
}

// Client calls the external translation API with a Redis cache in front.
type Client struct {
	http     *http.Client
	redis    *redis.Client
	baseURL  string
	apiKey   string
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewClient(cfg config.IntegrationConfig, rdb *redis.Client, log logger.Logger) *Client {
	timeout := time.Duration(cfg.Translation.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ttl := time.Duration(cfg.Translation.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Client{
		http:     http.NewClient(timeout),
		redis:    rdb,
		baseURL:  cfg.Translation.BaseURL,
		apiKey:   cfg.Translation.APIKey,
		cacheTTL: ttl,
		logger:   log,
	}
}

// Translate returns the translation of text into targetLang, or the original
// text unchanged when the service is unavailable or errors.
func (c *Client) Translate(ctx context.Context, text, targetLang string) string {
	if text == "" || targetLang == "" {
		return text
	}

	key := cacheKey(text, targetLang)
	if cached, err := c.redis.Get(ctx, key).Result(); err == nil {
		metrics.TranslationCacheHits.WithLabelValues("hit").Inc()
		return cached
	}
	metrics.TranslationCacheHits.WithLabelValues("miss").Inc()

	translated, err := c.call(ctx, text, targetLang)
	if err != nil {
		c.logger.WithError(errors.NewTranslationFailedError(err)).Warn("translation failed, using original text", map[string]interface{}{
			"target_lang": targetLang,
			"text_len":    len(text),
		})
		return text
	}

	if err := c.redis.Set(ctx, key, translated, c.cacheTTL).Err(); err != nil {
		c.logger.WithError(err).Warn("translation cache write failed", nil)
	}
	return translated
}

func (c *Client) call(ctx context.Context, text, targetLang string) (string, error) {
	body, err := json.Marshal(request{Text: text, TargetLang: targetLang})
	if err != nil {
		return "", err
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, c.baseURL+"/v1/translate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation API returned %d: %s", resp.StatusCode, string(data))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.TranslatedText == "" {
		return "", fmt.Errorf("translation API returned empty text")
	}
	return out.TranslatedText, nil
}

// cacheKey combines target language, text length and a bounded text prefix.
func cacheKey(text, targetLang string) string {
	prefix := text
	if len(prefix) > cacheKeyPrefixLen {
		prefix = prefix[:cacheKeyPrefixLen]
	}
	return fmt.Sprintf("translate:%s:%d:%s", targetLang, len(text), prefix)
}
