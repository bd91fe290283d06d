package commands

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"vms/backend/internal/pkg/repository/postgresql"
)

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            email text not null unique,
            hashed_password text not null,
            full_name text,
            phone_number text,
            role text not null default 'VENDOR',
            is_active boolean not null default true,
            created_at timestamp not null default now(),
            updated_at timestamp
        );`,
	},
	{
		Index:       2,
		Description: "Create admin with email: admin@vms.local, password: 1",
		Query: `
        INSERT INTO users(email, hashed_password, full_name, role)
        SELECT 'admin@vms.local', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2', 'Administrator', 'ADMIN'
        WHERE NOT EXISTS (SELECT email FROM users WHERE email = 'admin@vms.local');
        `,
	},
	{
		Index:       3,
		Description: "Create table: vendors.",
		Query: `
        CREATE TABLE IF NOT EXISTS vendors (
            id serial primary key,
            user_id int not null unique references users(id),
            phone_number text,
            company_name text,
            office_address text,
            gstin text,
            verification_status text not null default 'PENDING',
            vendor_uid text unique,
            dob text,
            gender text,
            logo_url text,
            qr_code_data text,
            qr_code_image_url text,
            qr_code_generated_at timestamp,
            created_at timestamp not null default now(),
            updated_at timestamp
        );
        CREATE INDEX IF NOT EXISTS vendors_verification_status_idx ON vendors(verification_status);`,
	},
	{
		Index:       4,
		Description: "Create table: agents.",
		Query: `
        CREATE TABLE IF NOT EXISTS agents (
            id serial primary key,
            name text not null,
            department text,
            email text,
            is_active boolean not null default true
        );`,
	},
	{
		Index:       5,
		Description: "Create table: company_locations.",
		Query: `
        CREATE TABLE IF NOT EXISTS company_locations (
            id serial primary key,
            company_name text not null,
            latitude double precision not null,
            longitude double precision not null,
            address text,
            created_at timestamp not null default now(),
            updated_at timestamp
        );
        CREATE INDEX IF NOT EXISTS company_locations_address_idx ON company_locations(address);`,
	},
	{
		Index:       6,
		Description: "Create table: visits.",
		Query: `
        CREATE TABLE IF NOT EXISTS visits (
            id serial primary key,
            vendor_id int not null references vendors(id),
            agent_id int references agents(id),
            check_in_time timestamp not null default now(),
            check_out_time timestamp,
            check_in_latitude double precision not null,
            check_in_longitude double precision not null,
            check_out_latitude double precision,
            check_out_longitude double precision,
            area text,
            pincode text,
            city text,
            state text,
            check_in_location text,
            check_out_location text,
            check_in_selfie_url text not null,
            check_out_selfie_url text,
            purpose text
        );
        CREATE INDEX IF NOT EXISTS visits_vendor_id_idx ON visits(vendor_id);
        CREATE INDEX IF NOT EXISTS visits_check_in_time_idx ON visits(check_in_time);`,
	},
	{
		Index:       7,
		Description: "Create table: documents.",
		Query: `
        CREATE TABLE IF NOT EXISTS documents (
            id serial primary key,
            vendor_id int not null references vendors(id),
            document_type text not null,
            file_url text not null,
            uploaded_at timestamp not null default now()
        );
        CREATE INDEX IF NOT EXISTS documents_vendor_type_idx ON documents(vendor_id, document_type);`,
	},
}

// MigrateUP applies every scheme entry newer than the recorded version. A
// failed entry is recorded as dirty and retried first on the next run.
func MigrateUP(ctx context.Context, db *postgresql.Database) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text)`); err != nil {
		return errors.Wrap(err, "creating schema_migrations")
	}

	var (
		version int
		dirty   bool
		er      *string
	)
	err := db.QueryRowContext(ctx, "SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (0, false)`); err != nil {
			return errors.Wrap(err, "initializing schema_migrations")
		}
		version, dirty = 0, false
	} else if err != nil {
		return errors.Wrap(err, "reading schema_migrations")
	}

	if dirty {
		for _, s := range scheme {
			if s.Index != version {
				continue
			}
			if err := apply(ctx, db, s); err != nil {
				return err
			}
		}
	}

	for _, s := range scheme {
		if s.Index <= version {
			continue
		}
		if err := apply(ctx, db, s); err != nil {
			return err
		}
	}

	return nil
}

func apply(ctx context.Context, db *postgresql.Database, s Scheme) error {
	if _, err := db.ExecContext(ctx, s.Query); err != nil {
		if _, uerr := db.ExecContext(ctx, `UPDATE schema_migrations SET error = ?, version = ?, dirty = true`, err.Error(), s.Index); uerr != nil {
			return errors.Wrap(uerr, "recording migration failure")
		}
		return errors.Wrapf(err, "migrate version %d", s.Index)
	}

	if _, err := db.ExecContext(ctx, `UPDATE schema_migrations SET version = ?, dirty = false, error = null`, s.Index); err != nil {
		return errors.Wrap(err, "recording migration")
	}

	log.Info().Int("version", s.Index).Str("description", s.Description).Msg("migration applied")
	return nil
}
