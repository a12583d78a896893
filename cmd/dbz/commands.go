package main

import (
	"fmt"
	"os"

	"github.com/ido50/dbz"
	"github.com/spf13/cobra"
)

var (
	whereFlag  string
	fieldsFlag string
	bindFlags  []string
)

var runCmd = &cobra.Command{
	Use:   "run <sql>",
	Short: "Run a raw SQL statement",
	Long: `Run a raw SQL statement. SELECT, DESCRIBE and PRAGMA statements print
their rows as JSON; DELETE, INSERT and UPDATE statements print the number of
affected rows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		res := db.Run(args[0], parseBindings(bindFlags)...)

		switch res.Kind {
		case dbz.Failure:
			return res.Err
		case dbz.RowSet:
			return writeRows(os.Stdout, res.Rows)
		case dbz.AffectedCount:
			printSuccess("%d row(s) affected", res.RowsAffected)
		default:
			printSuccess("ok")
		}

		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <table>",
	Short: "Select rows from a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := db.SelectFields(args[0], fieldsFlag, whereFlag, parseBindings(bindFlags)...)
		if err != nil {
			return err
		}

		return writeRows(os.Stdout, rows)
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert <table> <column=value>...",
	Short: "Insert a row into a table",
	Long: `Insert a row into a table. Fields that are not columns of the table are
ignored.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(args[1:])
		if err != nil {
			return err
		}

		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		affected, err := db.Insert(args[0], fields)
		if err != nil {
			return err
		}

		if id := db.LastInsertID(); id != 0 {
			printSuccess("%d row(s) inserted (id %d)", affected, id)
		} else {
			printSuccess("%d row(s) inserted", affected)
		}

		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <table> <column=value>...",
	Short: "Update rows of a table",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(args[1:])
		if err != nil {
			return err
		}

		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		affected, err := db.Update(args[0], fields, whereFlag, parseBindings(bindFlags)...)
		if err != nil {
			return err
		}

		printSuccess("%d row(s) updated", affected)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <table>",
	Short: "Delete rows from a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		affected, err := db.Delete(args[0], whereFlag, parseBindings(bindFlags)...)
		if err != nil {
			return err
		}

		printSuccess("%d row(s) deleted", affected)
		return nil
	},
}

var columnsCmd = &cobra.Command{
	Use:   "columns <table>",
	Short: "List the columns of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		cols, err := db.Columns(args[0])
		if err != nil {
			return err
		}
		if len(cols) == 0 {
			return fmt.Errorf("table %s has no columns (does it exist?)", args[0])
		}

		for _, col := range cols {
			fmt.Println(col)
		}

		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, selectCmd, updateCmd, deleteCmd} {
		cmd.Flags().StringArrayVarP(&bindFlags, "bind", "b", nil, "binding (positional value, or :name=value)")
	}

	for _, cmd := range []*cobra.Command{selectCmd, updateCmd, deleteCmd} {
		cmd.Flags().StringVarP(&whereFlag, "where", "w", "", "WHERE clause")
	}

	selectCmd.Flags().StringVarP(&fieldsFlag, "fields", "f", "*", "fields to select")

	updateCmd.MarkFlagRequired("where")
	deleteCmd.MarkFlagRequired("where")

	rootCmd.AddCommand(runCmd, selectCmd, insertCmd, updateCmd, deleteCmd, columnsCmd)
}
