package cmd

import (
	"context"
	"errors"
	"fmt"

	internalApp "github.com/haierkeys/fast-note-web/internal/app"
	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type userFlags struct {
	config   string
	username string
	password string
}

// openUserService 打开数据库并创建用户服务，返回关闭函数
func openUserService(configPath string) (service.UserService, func(), error) {
	if configPath == "" {
		path, err := resolveConfigPath()
		if err != nil {
			return nil, nil, err
		}
		configPath = path
	}
	cfg, _, err := internalApp.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := initStorageWithConfig(cfg); err != nil {
		return nil, nil, err
	}
	db, err := dao.NewDBEngine(cfg.Database, bootstrapLogger)
	if err != nil {
		return nil, nil, err
	}
	d := dao.New(db, cfg.Database.AutoMigrate, bootstrapLogger)
	closeFn := func() {
		if err := d.Close(); err != nil {
			bootstrapLogger.Warn("close database", zap.Error(err))
		}
	}
	return service.NewUserService(dao.NewUserRepository(d), bootstrapLogger), closeFn, nil
}

func init() {
	flags := new(userFlags)

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add -u username -p password",
		Short: "Create an active user",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, closeFn, err := openUserService(flags.config)
			if err != nil {
				return err
			}
			defer closeFn()

			u, err := users.Create(context.Background(), flags.username, flags.password)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("user %q created (uid %d)\n", u.Username, u.UID)
			return nil
		},
	}

	setActive := func(active bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			users, closeFn, err := openUserService(flags.config)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := users.SetActive(context.Background(), flags.username, active); err != nil {
				return describe(err)
			}
			state := "disabled"
			if active {
				state = "enabled"
			}
			fmt.Printf("user %q %s\n", flags.username, state)
			return nil
		}
	}

	disableCmd := &cobra.Command{
		Use:   "disable -u username",
		Short: "Deactivate a user, the account can no longer log in",
		RunE:  setActive(false),
	}
	enableCmd := &cobra.Command{
		Use:   "enable -u username",
		Short: "Reactivate a user",
		RunE:  setActive(true),
	}

	userCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file")
	userCmd.PersistentFlags().StringVarP(&flags.username, "username", "u", "", "username")
	_ = userCmd.MarkPersistentFlagRequired("username")
	addCmd.Flags().StringVarP(&flags.password, "password", "p", "", "password")
	_ = addCmd.MarkFlagRequired("password")

	userCmd.AddCommand(addCmd, disableCmd, enableCmd)
	rootCmd.AddCommand(userCmd)
}

// describe turns a response code into its message
// describe 将错误码转换为可读信息
func describe(err error) error {
	var ce interface{ Msg() string }
	if errors.As(err, &ce) {
		return errors.New(ce.Msg())
	}
	return err
}
