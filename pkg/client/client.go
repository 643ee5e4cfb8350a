package client

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Client 统一门面：在线走 Remote，连通性失败自动降级到本地镜像回放。
// 业务错误（APIError）永远透传，不触发降级。
type Client struct {
	remote *Remote
	local  *Local
	mode   *ModeState
	log    *zap.Logger
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	LocalPath string // sqlite 镜像文件路径
	Log       *zap.Logger
}

func New(opt Options) (*Client, error) {
	local, err := OpenLocal(opt.LocalPath)
	if err != nil {
		return nil, err
	}
	mode, err := NewModeState(local.DB())
	if err != nil {
		local.Close()
		return nil, err
	}
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		remote: NewRemote(opt.BaseURL, opt.Timeout),
		local:  local,
		mode:   mode,
		log:    log,
	}
	c.loadSession()
	return c, nil
}

func (c *Client) Close() error { return c.local.Close() }

func (c *Client) Online() bool { return c.mode.Online() }

// Health 探活。成功则切回在线模式。
func (c *Client) Health(ctx context.Context) bool {
	if err := c.remote.Health(ctx); err != nil {
		return false
	}
	if !c.mode.Online() {
		c.log.Info("remote is back, switching to online mode")
		c.mode.SetOnline(true)
	}
	return true
}

// 会话存在镜像 kv 里，CLI 多次调用之间保持登录态
func (c *Client) setSession(s *Session) {
	c.remote.SetToken(s.Token)
	c.local.SetUser(s.User.ID)
	db := c.local.DB()
	_, _ = db.Exec(`INSERT INTO kv(key, value) VALUES('session_token', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, s.Token)
	_, _ = db.Exec(`INSERT INTO kv(key, value) VALUES('session_user', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, s.User.ID)
}

func (c *Client) loadSession() {
	db := c.local.DB()
	var token, uid string
	if err := db.QueryRow(`SELECT value FROM kv WHERE key = 'session_token'`).Scan(&token); err == nil {
		c.remote.SetToken(token)
	}
	if err := db.QueryRow(`SELECT value FROM kv WHERE key = 'session_user'`).Scan(&uid); err == nil {
		c.local.SetUser(uid)
	}
}

// run 降级决策集中在这一处
func run[T any](c *Client, op string, remoteFn func() (T, error), localFn func() (T, error)) (T, error) {
	if c.mode.Online() {
		v, err := remoteFn()
		if err == nil || !IsUnavailable(err) {
			return v, err
		}
		c.log.Warn("remote unavailable, falling back to local mirror",
			zap.String("op", op), zap.Error(err))
		c.mode.SetOnline(false)
	}
	return localFn()
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	s, err := run(c, "register",
		func() (*Session, error) { return c.remote.Register(ctx, in) },
		func() (*Session, error) { return c.local.Register(ctx, in) })
	if err != nil {
		return nil, err
	}
	c.setSession(s)
	return s, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	s, err := run(c, "login",
		func() (*Session, error) { return c.remote.Login(ctx, email, password) },
		func() (*Session, error) { return c.local.Login(ctx, email, password) })
	if err != nil {
		return nil, err
	}
	c.setSession(s)
	return s, nil
}

func (c *Client) ListJobs(ctx context.Context, opt ListOptions) (*JobPage, error) {
	page, err := run(c, "list_jobs",
		func() (*JobPage, error) { return c.remote.ListJobs(ctx, opt) },
		func() (*JobPage, error) { return c.local.ListJobs(ctx, opt) })
	if err != nil {
		return nil, err
	}
	// 在线结果顺手写进镜像，离线时有最近的数据可用
	if c.mode.Online() && len(page.Jobs) > 0 {
		if mErr := c.local.MirrorJobs(ctx, page.Jobs); mErr != nil {
			c.log.Warn("mirror jobs failed", zap.Error(mErr))
		}
	}
	return page, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (*Job, error) {
	return run(c, "get_job",
		func() (*Job, error) { return c.remote.GetJob(ctx, id) },
		func() (*Job, error) { return c.local.GetJob(ctx, id) })
}

func (c *Client) CreateJob(ctx context.Context, in JobInput) (*Job, error) {
	return run(c, "create_job",
		func() (*Job, error) { return c.remote.CreateJob(ctx, in) },
		func() (*Job, error) { return c.local.CreateJob(ctx, in) })
}

// Apply 降级回放时由本地镜像自己做重复投递/自投检查，
// 离线与在线的判定一致。
func (c *Client) Apply(ctx context.Context, jobID, coverLetter string) (*ApplyResult, error) {
	return run(c, "apply",
		func() (*ApplyResult, error) { return c.remote.Apply(ctx, jobID, coverLetter) },
		func() (*ApplyResult, error) { return c.local.Apply(ctx, jobID, coverLetter) })
}

func (c *Client) MyApplications(ctx context.Context) ([]Application, error) {
	return run(c, "my_applications",
		func() ([]Application, error) { return c.remote.MyApplications(ctx) },
		func() ([]Application, error) { return c.local.MyApplications(ctx) })
}

func (c *Client) SetStatus(ctx context.Context, appID, status, comment string) (*StatusResult, error) {
	return run(c, "set_status",
		func() (*StatusResult, error) { return c.remote.SetStatus(ctx, appID, status, comment) },
		func() (*StatusResult, error) { return c.local.SetStatus(ctx, appID, status, comment) })
}

func (c *Client) Withdraw(ctx context.Context, appID string) (*WithdrawResult, error) {
	return run(c, "withdraw",
		func() (*WithdrawResult, error) { return c.remote.Withdraw(ctx, appID) },
		func() (*WithdrawResult, error) { return c.local.Withdraw(ctx, appID) })
}
