// Package leaderboard 提供在线排行榜的提交客户端
//
// 一次提交包含三个请求：必要时注册玩家、上传分数、拉取完整榜单。
// 难度三元组以 JSON 形式作为分数的 meta 字段，榜单只在相同 meta 内排名。
package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/decker502/jugglemail/pkg/config"
)

const (
	requestTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20 // 1MB
	defaultTopN     = 5
)

var (
	// ErrDisabled 未配置排行榜地址
	ErrDisabled = errors.New("leaderboard disabled")
	// ErrScoreMissing 上传成功但榜单中找不到本次分数
	ErrScoreMissing = errors.New("submitted score not found in leaderboard")
)

// Player 排行榜上的玩家凭据
type Player struct {
	ID    uuid.UUID `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Token string    `json:"token" yaml:"token"`
}

// Valid 是否是一个已注册的玩家
func (p Player) Valid() bool {
	return p.ID != uuid.Nil && p.Token != ""
}

// Score 榜单上的一条记录
type Score struct {
	Player    string  `json:"player"`
	Score     float64 `json:"score"`
	Meta      string  `json:"meta,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Result 一次提交的结果
type Result struct {
	Rank int     // 本次分数在同难度榜单中的名次（从 0 开始）
	Top  []Score // 同难度前几名，每个玩家只出现一次
}

// PlayerStore 持久化玩家凭据，SettingsManager 实现了该接口
type PlayerStore interface {
	LoadPlayer() (Player, bool)
	SavePlayer(Player) error
}

// Client 排行榜客户端
type Client struct {
	baseURL       string
	leaderboardID uuid.UUID
	httpClient    *http.Client
	store         PlayerStore
	topN          int
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换默认的 HTTP 客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTopN 设置返回的前几名数量
func WithTopN(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.topN = n
		}
	}
}

// NewClient 创建排行榜客户端
//
// 参数：
//   - baseURL: 服务地址，为空时客户端处于禁用状态，Submit 返回 ErrDisabled
//   - leaderboardID: 榜单标识
//   - store: 玩家凭据存储，可为 nil（每次提交都重新注册）
func NewClient(baseURL string, leaderboardID uuid.UUID, store PlayerStore, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		leaderboardID: leaderboardID,
		store:         store,
		topN:          defaultTopN,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled 是否配置了排行榜地址
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Submit 提交一局成绩并返回同难度下的名次和前几名
//
// 玩家名与已保存的凭据不一致时重新注册。可以通过 ctx 取消。
//
// 参数：
//   - ctx: 请求上下文
//   - diff: 本局难度，作为分数的 meta
//   - name: 玩家名
//   - score: 本局分数
//
// 返回：
//   - Result: 名次和前几名
//   - error: ErrDisabled、网络错误或服务端错误
func (c *Client) Submit(ctx context.Context, diff config.Difficulty, name string, score float64) (Result, error) {
	if !c.Enabled() {
		return Result{}, ErrDisabled
	}

	player, err := c.player(ctx, name)
	if err != nil {
		return Result{}, fmt.Errorf("failed to register player: %w", err)
	}

	meta, err := json.Marshal(diff)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode difficulty: %w", err)
	}

	if err := c.sendScore(ctx, player, score, string(meta)); err != nil {
		return Result{}, fmt.Errorf("failed to send score: %w", err)
	}

	var scores []Score
	if err := c.do(ctx, http.MethodGet, c.scoresURL(), "", nil, &scores); err != nil {
		return Result{}, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	res, err := Rank(scores, string(meta), score, c.topN)
	if err != nil {
		return Result{}, err
	}
	log.Printf("[Leaderboard] %s scored %.0f, rank %d of %s", name, score, res.Rank+1, diff)
	return res, nil
}

// player 返回可用的玩家凭据，名字变化或没有凭据时重新注册
func (c *Client) player(ctx context.Context, name string) (Player, error) {
	if c.store != nil {
		if p, ok := c.store.LoadPlayer(); ok && p.Valid() && p.Name == name {
			return p, nil
		}
	}

	var p Player
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/v1/players", "", body, &p); err != nil {
		return Player{}, err
	}
	if !p.Valid() {
		return Player{}, fmt.Errorf("server returned incomplete player %q", p.ID)
	}
	if p.Name == "" {
		p.Name = name
	}
	log.Printf("[Leaderboard] Registered player %s (%s)", p.Name, p.ID)

	if c.store != nil {
		if err := c.store.SavePlayer(p); err != nil {
			log.Printf("[Leaderboard] Warning: failed to save player: %v", err)
		}
	}
	return p, nil
}

type scoreRequest struct {
	ID     uuid.UUID `json:"id"`
	Player uuid.UUID `json:"player"`
	Score  float64   `json:"score"`
	Meta   string    `json:"meta"`
}

func (c *Client) sendScore(ctx context.Context, player Player, score float64, meta string) error {
	req := scoreRequest{
		ID:     uuid.New(),
		Player: player.ID,
		Score:  score,
		Meta:   meta,
	}
	return c.do(ctx, http.MethodPost, c.scoresURL(), player.Token, req, nil)
}

func (c *Client) scoresURL() string {
	return c.baseURL + "/api/v1/scores/" + c.leaderboardID.String()
}

// do 发送 JSON 请求并把响应解码到 out（out 为 nil 时丢弃响应体）
func (c *Client) do(ctx context.Context, method, url, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status code: %d", method, url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
