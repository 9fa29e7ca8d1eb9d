package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

This file contains functionality to generate a report of database columns that aren't
accounted for as variables in the corresponding Go model structs.

To generate the report:

	blogd report

The report will show:
- Each table name
- List of columns that exist in the database but not in the Go model
- Summary of total mismatched columns across all tables

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: blog_posts ---
Found 1 columns not accounted for in model:
  - created_at

--- Table: tags ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// All returns every persisted model, in migration order
func All() []interface{} {
	return []interface{}{&Tag{}, &BlogPost{}, &BlogPostTag{}}
}

// GenerateModels migrates the schema and writes gorm/gen query helpers to outPath
func GenerateModels(db *gorm.DB, outPath string, out io.Writer) error {
	// First, ensure the database is ready
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// Set up verbose logging for migration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 newLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Tag{}, BlogPost{}, BlogPostTag{})

	fmt.Fprintln(out, "Migrating models...")
	if err := Migrate(db); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	fmt.Fprintln(out, "Database migration completed successfully!")

	if _, err := GenerateColumnMismatchReport(db, out); err != nil {
		return err
	}

	g.Execute()
	fmt.Fprintln(out, "Model generation complete!")
	return nil
}

// Migrate creates or updates the tables. The join table is registered first so
// gorm uses BlogPostTag (composite key) for the Tags association.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&BlogPost{}, "Tags", &BlogPostTag{}); err != nil {
		return fmt.Errorf("setup blog_post_tags join table: %w", err)
	}
	return db.AutoMigrate(All()...)
}

// GenerateColumnMismatchReport writes a report of database columns that aren't
// accounted for in Go models and returns the total number of mismatches.
func GenerateColumnMismatchReport(db *gorm.DB, out io.Writer) (int, error) {
	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	totalMismatches := 0
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return 0, fmt.Errorf("parse model %T: %w", model, err)
		}
		tableName := stmt.Schema.Table
		fmt.Fprintf(out, "\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				fmt.Fprintln(out, "Table does not exist yet (will be created during migration)")
				continue
			}
			return 0, err
		}

		mismatches := findColumnMismatches(dbColumns, getModelFields(stmt.Schema))
		if len(mismatches) > 0 {
			fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
			for _, col := range mismatches {
				fmt.Fprintf(out, "  - %s\n", col)
			}
			totalMismatches += len(mismatches)
		} else {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
		}
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches, nil
}

// getTableColumns retrieves column names through the dialect's migrator so the
// report works on both postgres and sqlite
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	if !db.Migrator().HasTable(tableName) {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}

	columnTypes, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	columns := make([]string, 0, len(columnTypes))
	for _, columnType := range columnTypes {
		columns = append(columns, columnType.Name())
	}
	return columns, nil
}

// getModelFields lists the column names gorm maps for a parsed model
func getModelFields(s *schema.Schema) []string {
	var fields []string
	for _, field := range s.Fields {
		if field.DBName == "" {
			continue
		}
		// Skip association fields (relationship slices)
		if field.FieldType.Kind() == reflect.Slice {
			continue
		}
		fields = append(fields, field.DBName)
	}
	return fields
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool)
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}

	return mismatches
}
