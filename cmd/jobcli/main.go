package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tez-jumush/internal/core/config"
	"tez-jumush/internal/core/logger"
	"tez-jumush/pkg/client"
)

const usage = `jobcli <command> [flags]

commands:
  health                         探测远端 API，可用则切回在线模式
  register  -name -email -password -type   注册（type: worker|employer）
  login     -email -password               登录
  jobs      [-page -limit -search]         职位列表
  job       -id                            职位详情
  post      -title -desc [-salary ...]     发布职位（需先 login）
  apply     -job [-letter]                 投递（需先 login）
  my                                       我的投递（需先 login）
  status    -id -status [-comment]         变更投递状态（雇主）
  withdraw  -id                            撤回投递
`

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	localPath := cfg.Client.LocalPath
	if localPath == "" {
		localPath = "tezjumush-mirror.db"
	}
	baseURL := cfg.Client.BaseURL
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}

	cl, err := client.New(client.Options{
		BaseURL:   baseURL,
		Timeout:   time.Duration(cfg.Client.TimeoutSec) * time.Second,
		LocalPath: localPath,
		Log:       log,
	})
	if err != nil {
		log.Fatal("open client", zap.Error(err))
	}
	defer cl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := dispatch(ctx, cl, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, cl *client.Client, cmd string, args []string) error {
	switch cmd {
	case "health":
		if cl.Health(ctx) {
			fmt.Println("remote: ok (online mode)")
		} else {
			fmt.Println("remote: unreachable (local mode)")
		}
		return nil

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "full name")
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		phone := fs.String("phone", "", "phone")
		utype := fs.String("type", "worker", "worker or employer")
		fs.Parse(args)
		s, err := cl.Register(ctx, client.RegisterInput{
			Name: *name, Email: *email, Password: *password, Phone: *phone, UserType: *utype,
		})
		if err != nil {
			return err
		}
		return dump(s)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "password")
		fs.Parse(args)
		s, err := cl.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		return dump(s)

	case "jobs":
		fs := flag.NewFlagSet("jobs", flag.ExitOnError)
		page := fs.Int("page", 1, "page")
		limit := fs.Int("limit", 20, "page size")
		search := fs.String("search", "", "free-text search")
		category := fs.String("category", "", "category")
		location := fs.String("location", "", "location")
		fs.Parse(args)
		p, err := cl.ListJobs(ctx, client.ListOptions{
			Page: *page, Limit: *limit, Search: *search, Category: *category, Location: *location,
		})
		if err != nil {
			return err
		}
		return dump(p)

	case "job":
		fs := flag.NewFlagSet("job", flag.ExitOnError)
		id := fs.String("id", "", "job id")
		fs.Parse(args)
		j, err := cl.GetJob(ctx, *id)
		if err != nil {
			return err
		}
		return dump(j)

	case "post":
		fs := flag.NewFlagSet("post", flag.ExitOnError)
		title := fs.String("title", "", "title")
		desc := fs.String("desc", "", "description")
		salary := fs.String("salary", "", "salary text")
		location := fs.String("location", "", "location")
		category := fs.String("category", "", "category")
		urgency := fs.String("urgency", "", "low|medium|high")
		fs.Parse(args)
		j, err := cl.CreateJob(ctx, client.JobInput{
			Title: *title, Description: *desc, Salary: *salary,
			Location: *location, Category: *category, Urgency: *urgency,
		})
		if err != nil {
			return err
		}
		return dump(j)

	case "apply":
		fs := flag.NewFlagSet("apply", flag.ExitOnError)
		job := fs.String("job", "", "job id")
		letter := fs.String("letter", "", "cover letter")
		fs.Parse(args)
		res, err := cl.Apply(ctx, *job, *letter)
		if err != nil {
			return err
		}
		return dump(res)

	case "my":
		apps, err := cl.MyApplications(ctx)
		if err != nil {
			return err
		}
		return dump(apps)

	case "status":
		fs := flag.NewFlagSet("status", flag.ExitOnError)
		id := fs.String("id", "", "application id")
		status := fs.String("status", "", "pending|reviewed|accepted|rejected")
		comment := fs.String("comment", "", "employer comment")
		fs.Parse(args)
		res, err := cl.SetStatus(ctx, *id, *status, *comment)
		if err != nil {
			return err
		}
		return dump(res)

	case "withdraw":
		fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
		id := fs.String("id", "", "application id")
		fs.Parse(args)
		res, err := cl.Withdraw(ctx, *id)
		if err != nil {
			return err
		}
		return dump(res)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func dump(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
