package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed snapshots.sql
var snapshotsSQL string

//go:embed text_nodes.sql
var textNodesSQL string

//go:embed keyword_nodes.sql
var keywordNodesSQL string

// Function lists for verification
var SnapshotsFunctions = []string{
	"init_snapshots",
	"insert_snapshot",
	"select_snapshot",
	"select_all_snapshots",
	"delete_snapshot",
}

var TextNodesFunctions = []string{
	"init_text_nodes",
	"insert_text_node",
	"select_text_nodes",
	"select_text_nodes_by_similarity",
}

var KeywordNodesFunctions = []string{
	"init_keyword_nodes",
	"insert_keyword_node",
	"select_keyword_nodes",
	"select_keyword_nodes_by_similarity",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadSnapshotsSql loads snapshot-related SQL functions
func LoadSnapshotsSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "snapshots", snapshotsSQL, SnapshotsFunctions, force)
}

// LoadTextNodesSql loads text node SQL functions
func LoadTextNodesSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "text nodes", textNodesSQL, TextNodesFunctions, force)
}

// LoadKeywordNodesSql loads keyword node SQL functions
func LoadKeywordNodesSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "keyword nodes", keywordNodesSQL, KeywordNodesFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadSnapshotsSql(db, force); err != nil {
		return err
	}

	if err := LoadTextNodesSql(db, force); err != nil {
		return err
	}

	if err := LoadKeywordNodesSql(db, force); err != nil {
		return err
	}

	return nil
}

// loadFunctions executes functionsSQL unless all functions already exist and force is false
func loadFunctions(db *sql.DB, name string, functionsSQL string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(functionsSQL)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
