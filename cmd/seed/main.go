package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/config"
	dirsvc "github.com/sis-thesqd/hub-thesquad-sub000/internal/domain/services/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/repository/postgres"
	postgresdir "github.com/sis-thesqd/hub-thesquad-sub000/internal/repository/postgres/directory"
	"github.com/sis-thesqd/hub-thesquad-sub000/internal/seed"
	svcdir "github.com/sis-thesqd/hub-thesquad-sub000/internal/service/directory"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed fixture data")
	clearData := flag.Bool("clear-data", false, "Clear all entries, frames and favorites (keep schema)")
	fixturesPath := flag.String("fixtures", "", "Path to a fixtures YAML file (default: embedded dev set)")
	actorID := flag.String("actor", "00000000-0000-0000-0000-000000000000", "User ID recorded as creator of seeded rows")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	// Exit early if schema-only mode
	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Exit early if clear-data mode (just clear and exit)
	if *clearData {
		log.Println("🧹 Clearing existing portal data...")
		if err := clearPortalData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Load fixtures
	fixtures, err := seed.Load(*fixturesPath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	// Departments are normally owned by the HR sync; upsert them so local
	// environments work standalone.
	log.Printf("🏢 Upserting %d departments...", len(fixtures.Departments))
	if err := upsertDepartments(ctx, pool, tables, fixtures.Departments); err != nil {
		log.Fatalf("Failed to upsert departments: %v", err)
	}

	// Clear existing portal data so seeding is repeatable
	log.Println("⚠️  Clearing existing entries, frames and favorites...")
	if err := clearPortalData(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	// Create repositories and services; seeding goes through the service
	// layer so slugs, collisions and placements behave exactly as in the API.
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	entryRepo := postgresdir.NewEntryRepository(repoConfig)
	frameRepo := postgresdir.NewFrameRepository(repoConfig)
	favoriteRepo := postgresdir.NewFavoriteRepository(repoConfig)
	deptRepo := postgresdir.NewDepartmentRepository(repoConfig)
	settingRepo := postgresdir.NewSettingRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	validator := svcdir.NewResourceValidator(entryRepo, deptRepo)
	syncer := svcdir.NewPlacementSynchronizer(entryRepo, logger)
	entryService := svcdir.NewEntryService(entryRepo, favoriteRepo, txManager, validator, logger)
	frameService := svcdir.NewFrameService(frameRepo, entryRepo, favoriteRepo, deptRepo, syncer, txManager, validator, logger)
	settingService := svcdir.NewSettingService(settingRepo, deptRepo, logger)

	// Seed folders; remember each folder's slug path for placement lookup
	log.Printf("📁 Seeding %d folder trees...", len(fixtures.Folders))
	folderIDs := make(map[string]string) // "dept/slug/slug" -> entry id
	for i := range fixtures.Folders {
		f := &fixtures.Folders[i]
		if err := seedFolder(ctx, entryService, f, f.Department, nil, f.Department, folderIDs, *actorID); err != nil {
			log.Fatalf("❌ Failed to create folder '%s': %v", f.Name, err)
		}
	}

	// Seed frames with their placements
	log.Printf("🖼️  Seeding %d frames...", len(fixtures.Frames))
	for i, fx := range fixtures.Frames {
		req := &dirsvc.CreateFrameRequest{
			Name:          fx.Name,
			IframeURL:     fx.URL,
			Description:   optional(fx.Description),
			DepartmentID:  fx.Department,
			DepartmentIDs: fx.VisibleTo,
			Emoji:         optional(fx.Emoji),
			ActorID:       *actorID,
		}
		for _, placement := range fx.Placements {
			if placement == "" {
				req.Placements = append(req.Placements, nil)
				continue
			}
			folderID, ok := folderIDs[fx.Department+"/"+placement]
			if !ok {
				log.Fatalf("❌ Frame '%s' placement '%s' does not match any seeded folder", fx.Name, placement)
			}
			req.Placements = append(req.Placements, &folderID)
		}

		frame, err := frameService.CreateFrame(ctx, req)
		if err != nil {
			log.Fatalf("❌ Failed to create frame '%s': %v", fx.Name, err)
		}
		log.Printf("✅ Created frame %d/%d: %s (ID: %s, Placements: %d)",
			i+1, len(fixtures.Frames), fx.Name, frame.ID, len(fx.Placements))
	}

	// Pin the department navigation order if the fixtures specify one
	if len(fixtures.DepartmentOrder) > 0 {
		log.Println("⚙️  Pinning department order...")
		if err := settingService.SetDepartmentOrder(ctx, fixtures.DepartmentOrder, *actorID); err != nil {
			log.Fatalf("Failed to set department order: %v", err)
		}
	}

	log.Println("🎉 Seeding complete!")
}

// seedFolder creates one folder and recurses into its children. pathKey is the
// accumulated "dept/slug/..." lookup key of the parent.
func seedFolder(
	ctx context.Context,
	entryService dirsvc.EntryService,
	fixture *seed.FolderFixture,
	departmentID string,
	parentID *string,
	pathKey string,
	folderIDs map[string]string,
	actorID string,
) error {
	folder, err := entryService.CreateFolder(ctx, &dirsvc.CreateFolderRequest{
		DepartmentID: departmentID,
		ParentID:     parentID,
		Name:         fixture.Name,
		Slug:         fixture.Slug,
		Emoji:        optional(fixture.Emoji),
		ActorID:      actorID,
	})
	if err != nil {
		return err
	}

	key := pathKey + "/" + folder.Slug
	folderIDs[key] = folder.ID
	log.Printf("  ✓ Folder %s", key)

	for i := range fixture.Children {
		if err := seedFolder(ctx, entryService, &fixture.Children[i], departmentID, &folder.ID, key, folderIDs, actorID); err != nil {
			return err
		}
	}
	return nil
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Departments: rows owned by the HR sync job, ids are HR slugs not UUIDs
	createDepartments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Departments + ` (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)
	`
	if _, err := pool.Exec(ctx, createDepartments); err != nil {
		return err
	}

	// Frames: logical iframe identities, placed into the tree via entries
	createFrames := `
		CREATE TABLE IF NOT EXISTS ` + tables.Frames + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL,
			iframe_url TEXT NOT NULL,
			description TEXT,
			department_ids TEXT[] NOT NULL DEFAULT '{}',
			created_by TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFrames); err != nil {
		return err
	}

	// Directory entries: folders (frame_id NULL) and frame placements
	createEntries := `
		CREATE TABLE IF NOT EXISTS ` + tables.Entries + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			department_id TEXT NOT NULL REFERENCES ` + tables.Departments + `(id) ON DELETE CASCADE,
			parent_id UUID REFERENCES ` + tables.Entries + `(id) ON DELETE CASCADE,
			frame_id UUID REFERENCES ` + tables.Frames + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			emoji TEXT,
			sort_order INTEGER,
			created_by TEXT NOT NULL,
			updated_by TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createEntries); err != nil {
		return err
	}

	// Favorites: exactly one target per row
	createFavorites := `
		CREATE TABLE IF NOT EXISTS ` + tables.Favorites + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id TEXT NOT NULL,
			entry_id UUID REFERENCES ` + tables.Entries + `(id) ON DELETE CASCADE,
			department_id TEXT REFERENCES ` + tables.Departments + `(id) ON DELETE CASCADE,
			article_path TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			CHECK (num_nonnulls(entry_id, department_id, article_path) = 1)
		)
	`
	if _, err := pool.Exec(ctx, createFavorites); err != nil {
		return err
	}

	// Portal settings: small key/value store for admin configuration
	createSettings := `
		CREATE TABLE IF NOT EXISTS ` + tables.Settings + ` (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_by TEXT,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createSettings); err != nil {
		return err
	}

	// Create indexes. The two partial unique indexes enforce sibling slug
	// uniqueness: one for nested entries, one for a department's top level.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `entries_dept_parent ON ` + tables.Entries + `(department_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `entries_frame_id ON ` + tables.Entries + `(frame_id) WHERE frame_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `entries_sibling_slug ON ` + tables.Entries + `(parent_id, slug) WHERE parent_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `entries_root_slug ON ` + tables.Entries + `(department_id, slug) WHERE parent_id IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `favorites_entry ON ` + tables.Favorites + `(user_id, entry_id) WHERE entry_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `favorites_dept ON ` + tables.Favorites + `(user_id, department_id) WHERE department_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `favorites_article ON ` + tables.Favorites + `(user_id, article_path) WHERE article_path IS NOT NULL`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Favorites,
		tables.Entries,
		tables.Frames,
		tables.Settings,
		tables.Departments,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// clearPortalData removes favorites, entries and frames. Departments and
// settings survive so admin configuration outlives a reseed.
func clearPortalData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	// Favorites first, then entries, then frames (foreign key order)
	for _, table := range []string{tables.Favorites, tables.Entries, tables.Frames} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// upsertDepartments inserts fixture departments, updating names on conflict
func upsertDepartments(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, departments []seed.DepartmentFixture) error {
	query := `
		INSERT INTO ` + tables.Departments + ` (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	for _, d := range departments {
		if _, err := pool.Exec(ctx, query, d.ID, d.Name); err != nil {
			return err
		}
	}
	return nil
}

// optional returns nil for the empty string
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
