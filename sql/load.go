package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed entries.sql
var entriesSQL string

//go:embed names.sql
var namesSQL string

//go:embed resolutions.sql
var resolutionsSQL string

//go:embed aliases.sql
var aliasesSQL string

// Function lists for verification
var EntriesFunctions = []string{
	"init_entries",
	"insert_entry",
	"select_entry",
	"find_entries_by_name",
	"delete_entry",
}

var NamesFunctions = []string{
	"init_names",
	"upsert_name",
	"select_names_by_similarity",
	"select_names_by_trigram",
	"delete_name",
}

var ResolutionsFunctions = []string{
	"init_resolutions",
	"insert_resolution",
	"select_current_resolution",
	"select_resolution_history",
}

var AliasesFunctions = []string{
	"init_aliases",
	"upsert_alias",
	"select_alias",
	"delete_alias",
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

// LoadEntriesSql loads gazetteer-entry-related SQL functions
func LoadEntriesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, EntriesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing entries functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(entriesSQL)
	if err != nil {
		return fmt.Errorf("error executing entries SQL: %w", err)
	}

	exist, err := checkFunctions(db, EntriesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL entries functions loaded successfully")
	return nil
}

// LoadNamesSql loads name-index-related SQL functions
func LoadNamesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, NamesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing names functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(namesSQL)
	if err != nil {
		return fmt.Errorf("error executing names SQL: %w", err)
	}

	exist, err := checkFunctions(db, NamesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL names functions loaded successfully")
	return nil
}

// LoadResolutionsSql loads resolution-related SQL functions
func LoadResolutionsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, ResolutionsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing resolutions functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(resolutionsSQL)
	if err != nil {
		return fmt.Errorf("error executing resolutions SQL: %w", err)
	}

	exist, err := checkFunctions(db, ResolutionsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL resolutions functions loaded successfully")
	return nil
}

// LoadAliasesSql loads alias-cache-related SQL functions
func LoadAliasesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, AliasesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing aliases functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(aliasesSQL)
	if err != nil {
		return fmt.Errorf("error executing aliases SQL: %w", err)
	}

	exist, err := checkFunctions(db, AliasesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL aliases functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadEntriesSql(db, force); err != nil {
		return err
	}

	if err := LoadNamesSql(db, force); err != nil {
		return err
	}

	if err := LoadResolutionsSql(db, force); err != nil {
		return err
	}

	if err := LoadAliasesSql(db, force); err != nil {
		return err
	}

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
