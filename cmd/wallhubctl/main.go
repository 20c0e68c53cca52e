package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ikkim/wallhub-backend/config"
	"github.com/ikkim/wallhub-backend/internal/app"
	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/ikkim/wallhub-backend/internal/authz"
	"github.com/ikkim/wallhub-backend/internal/db"
	"github.com/ikkim/wallhub-backend/internal/storage"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

// env 명령 실행에 필요한 설정과 DB 연결
type env struct {
	cfg *config.Config
	db  *gorm.DB
}

type openFunc func() (*env, error)

func openFromConfig() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(&cfg.Database); err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db.GetDB()}, nil
}

// systemAdmin CLI는 서버 운영자 권한으로 실행
var systemAdmin = authz.Subject{Role: model.RoleAdmin}

func newCLI(open openFunc, out io.Writer) *cli.App {
	services := func(e *env) (app.Services, error) {
		fileStorage, err := storage.New(e.cfg.Storage, e.cfg.S3)
		if err != nil {
			return app.Services{}, err
		}
		return app.NewServices(e.cfg, e.db, fileStorage, nil, nil), nil
	}

	return &cli.App{
		Name:      "wallhubctl",
		Usage:     "WallHub 운영 도구",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply database schema",
				Action: func(ctx *cli.Context) error {
					e, err := open()
					if err != nil {
						return err
					}
					if err := db.AutoMigrate(e.db); err != nil {
						return err
					}
					fmt.Fprintf(ctx.App.Writer, "migrated %d models\n", len(db.Models()))
					return nil
				},
			},
			{
				Name:  "create-admin",
				Usage: "create an administrator account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "email"},
				},
				Action: func(ctx *cli.Context) error {
					e, err := open()
					if err != nil {
						return err
					}
					svc, err := services(e)
					if err != nil {
						return err
					}
					user, err := svc.User.Create(systemAdmin, model.AdminCreateUserRequest{
						RegisterRequest: model.RegisterRequest{
							Username: ctx.String("username"),
							Email:    ctx.String("email"),
							Password: ctx.String("password"),
						},
						Role: model.RoleAdmin,
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(ctx.App.Writer, "created admin %s (id=%d)\n", user.Username, user.ID)
					return nil
				},
			},
			{
				Name:  "cleanup-views",
				Usage: "delete view history older than the retention period",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Usage: "retention days (default: VIEW_HISTORY_RETENTION_DAYS)"},
				},
				Action: func(ctx *cli.Context) error {
					e, err := open()
					if err != nil {
						return err
					}
					svc, err := services(e)
					if err != nil {
						return err
					}
					days := e.cfg.ViewHistory.RetentionDays
					if ctx.IsSet("days") {
						days = ctx.Int("days")
					}
					removed, err := svc.ViewHistory.CleanupExpired(days)
					if err != nil {
						return err
					}
					fmt.Fprintf(ctx.App.Writer, "removed %d view history rows\n", removed)
					return nil
				},
			},
			{
				Name:  "recount-tags",
				Usage: "recompute tag usage counts from wallpaper associations",
				Action: func(ctx *cli.Context) error {
					e, err := open()
					if err != nil {
						return err
					}
					svc, err := services(e)
					if err != nil {
						return err
					}
					fixed, err := svc.Tag.RecountUsage()
					if err != nil {
						return err
					}
					fmt.Fprintf(ctx.App.Writer, "fixed %d tags\n", fixed)
					return nil
				},
			},
		},
	}
}

func main() {
	logger.Initialize(logger.Config{Level: "warn", Format: "console"})

	if err := newCLI(openFromConfig, os.Stdout).Run(os.Args); err != nil {
		logger.Fatal("wallhubctl failed", err)
	}
}
