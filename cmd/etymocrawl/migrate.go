package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rymp/etymologeek-parse/internal/store"
	"github.com/rymp/etymologeek-parse/internal/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		db, closeDB, err := store.OpenDB(ctx, appConfig.Database)
		if err != nil {
			return fmt.Errorf("打开数据库失败: %w", err)
		}
		defer closeDB()

		if err := store.Migrate(ctx, db, appConfig.Database.Driver); err != nil {
			return err
		}
		utils.Infof("数据库迁移完成 (%s)", appConfig.Database.Driver)
		return nil
	},
}
