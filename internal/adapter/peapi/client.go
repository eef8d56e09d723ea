// Package peapi implements the HTTP client for the government employment
// agency's approval APIs: OAuth2 client-credentials authentication, the
// certified-individual search and the approval update.
package peapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"pass-iae-backend/internal/usecase/notify"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	searchPath = "/rechercheindividucertifie/v1/rechercheIndividuCertifie"
	updatePath = "/maj-pass-iae/v1/passIAE/miseAjour"
	tokenPath  = "/connexion/oauth2/access_token"

	// Exit codes meaning success; every other code is a definitive rejection.
	searchSuccessCode = "S001"
	updateSuccessCode = "S000"

	tokenCacheKey = "peapi:access_token"
	// tokenExpiryMargin keeps us from sending a token about to expire
	// mid-request.
	tokenExpiryMargin = 10 * time.Second
)

type Config struct {
	BaseURL      string
	AuthBaseURL  string
	ClientID     string
	ClientSecret string
	Scope        string
	Timeout      time.Duration
}

// Client talks to the remote agency. The access token is cached in redis so
// concurrent sweeps share it; without redis an in-memory copy is used.
type Client struct {
	cfg  Config
	http *http.Client
	rdb  *redis.Client
	log  zerolog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

var _ notify.Client = (*Client)(nil)

func NewClient(cfg Config, rdb *redis.Client, log zerolog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		rdb:  rdb,
		log:  log,
	}
}

type searchRequest struct {
	NIRCertifie   string `json:"nirCertifie"`
	NomNaissance  string `json:"nomNaissance"`
	Prenom        string `json:"prenom"`
	DateNaissance string `json:"dateNaissance"`
}

type searchResponse struct {
	IDNationalDE string `json:"idNationalDE"`
	CodeSortie   string `json:"codeSortie"`
}

func (c *Client) SearchIndividual(ctx context.Context, q notify.IndividualQuery) (string, error) {
	body := searchRequest{
		NIRCertifie:   formatNIR(q.NIR),
		NomNaissance:  formatLastName(q.LastName),
		Prenom:        formatFirstName(q.FirstName),
		DateNaissance: q.BirthDate.Format("2006-01-02"),
	}
	var resp searchResponse
	if err := c.post(ctx, c.cfg.BaseURL+searchPath, body, &resp); err != nil {
		return "", err
	}
	if resp.CodeSortie != searchSuccessCode {
		return "", &notify.BadResponseError{Code: resp.CodeSortie}
	}
	return resp.IDNationalDE, nil
}

type updateRequest struct {
	IDNational            string `json:"idNational"`
	StatutReponsePassIAE  string `json:"statutReponsePassIAE"`
	TypeSIAE              int    `json:"typeSIAE"`
	DateDebutPassIAE      string `json:"dateDebutPassIAE"`
	DateFinPassIAE        string `json:"dateFinPassIAE"`
	NumPassIAE            string `json:"numPassIAE"`
	NumSIRETSiae          string `json:"numSIRETsiae"`
	OrigineCandidature    string `json:"origineCandidature"`
	TypologiePrescripteur string `json:"typologiePrescripteur,omitempty"`
}

type updateResponse struct {
	CodeSortie string `json:"codeSortie"`
}

func (c *Client) RegisterApproval(ctx context.Context, in notify.RegisterInput) error {
	body := updateRequest{
		IDNational: in.EncryptedID,
		// "A" declares the approval as accepted.
		StatutReponsePassIAE:  "A",
		TypeSIAE:              in.SiaeTypeCode,
		DateDebutPassIAE:      in.StartAt.Format("2006-01-02"),
		DateFinPassIAE:        in.EndAt.Format("2006-01-02"),
		NumPassIAE:            in.ApprovalNumber,
		NumSIRETSiae:          in.SiaeSiret,
		OrigineCandidature:    in.OriginCode,
		TypologiePrescripteur: in.PrescriberTypology,
	}
	var resp updateResponse
	if err := c.post(ctx, c.cfg.BaseURL+updatePath, body, &resp); err != nil {
		return err
	}
	if resp.CodeSortie != updateSuccessCode {
		return &notify.BadResponseError{Code: resp.CodeSortie}
	}
	return nil
}

// post sends an authenticated JSON request. Transport failures and non-2xx
// statuses come back as plain errors, which the caller treats as transient.
func (c *Client) post(ctx context.Context, rawURL string, body, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateToken(ctx)
		return fmt.Errorf("remote API rejected the access token")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote API answered HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}
	if c.rdb != nil {
		if token, err := c.rdb.Get(ctx, tokenCacheKey).Result(); err == nil && token != "" {
			c.token = token
			// The redis TTL is authoritative; keep the in-memory copy short.
			c.tokenExpiry = time.Now().Add(tokenExpiryMargin)
			return token, nil
		}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("scope", c.cfg.Scope)

	authURL := c.cfg.AuthBaseURL + tokenPath + "?realm=%2Fpartenaire"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint answered HTTP %d", resp.StatusCode)
	}
	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty token")
	}

	ttl := time.Duration(tr.ExpiresIn)*time.Second - tokenExpiryMargin
	if ttl < time.Second {
		ttl = time.Second
	}
	c.token = tr.AccessToken
	c.tokenExpiry = time.Now().Add(ttl)
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, tokenCacheKey, tr.AccessToken, ttl).Err(); err != nil {
			c.log.Warn().Err(err).Msg("could not cache the access token")
		}
	}
	return tr.AccessToken, nil
}

func (c *Client) invalidateToken(ctx context.Context) {
	c.mu.Lock()
	c.token = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
	if c.rdb != nil {
		if err := c.rdb.Del(ctx, tokenCacheKey).Err(); err != nil {
			c.log.Warn().Err(err).Msg("could not drop the cached access token")
		}
	}
}
