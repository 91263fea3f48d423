package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dukerupert/csemotors/internal/database"
	"github.com/dukerupert/csemotors/internal/model"
)

type InventoryStore struct {
	db *database.DB
}

func NewInventoryStore(db *database.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

type VehicleInput struct {
	Make             string
	Model            string
	Year             string
	Description      string
	Image            string
	Thumbnail        string
	Price            float64
	Miles            int64
	Color            string
	ClassificationID int64
}

const vehicleCols = `i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description,
	i.inv_image, i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color,
	i.classification_id, c.classification_name`

const vehicleFrom = ` FROM inventory i JOIN classification c ON c.classification_id = i.classification_id`

func scanVehicle(scanner interface{ Scan(...any) error }) (*model.Vehicle, error) {
	var v model.Vehicle
	err := scanner.Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.Description,
		&v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color,
		&v.ClassificationID, &v.ClassificationName,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *InventoryStore) ListClassifications(ctx context.Context) ([]model.Classification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT classification_id, classification_name FROM classification ORDER BY classification_name`,
	)
	if err != nil {
		return nil, dataErr("list classifications", err)
	}
	defer rows.Close()

	var classifications []model.Classification
	for rows.Next() {
		var c model.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, dataErr("scan classification", err)
		}
		classifications = append(classifications, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("list classifications", err)
	}
	return classifications, nil
}

func (s *InventoryStore) GetClassification(ctx context.Context, id int64) (*model.Classification, error) {
	var c model.Classification
	err := s.db.QueryRowContext(ctx,
		`SELECT classification_id, classification_name FROM classification WHERE classification_id = ?`, id,
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dataErr("get classification", err)
	}
	return &c, nil
}

func (s *InventoryStore) ListByClassification(ctx context.Context, classificationID int64) ([]model.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+vehicleCols+vehicleFrom+` WHERE i.classification_id = ? ORDER BY i.inv_make, i.inv_model`,
		classificationID,
	)
	if err != nil {
		return nil, dataErr("list vehicles", err)
	}
	defer rows.Close()

	var vehicles []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, dataErr("scan vehicle", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("list vehicles", err)
	}
	return vehicles, nil
}

func (s *InventoryStore) GetVehicle(ctx context.Context, invID int64) (*model.Vehicle, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+vehicleCols+vehicleFrom+` WHERE i.inv_id = ?`, invID)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dataErr("get vehicle", err)
	}
	return v, nil
}

func (s *InventoryStore) AddClassification(ctx context.Context, name string) (*model.Classification, error) {
	var c model.Classification
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO classification (classification_name) VALUES (?) RETURNING classification_id, classification_name`,
		name,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, dataErr("add classification", err)
	}
	return &c, nil
}

func (s *InventoryStore) AddVehicle(ctx context.Context, in VehicleInput) (*model.Vehicle, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO inventory (inv_make, inv_model, inv_year, inv_description, inv_image,
			inv_thumbnail, inv_price, inv_miles, inv_color, classification_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING inv_id`,
		in.Make, in.Model, in.Year, in.Description, in.Image,
		in.Thumbnail, in.Price, in.Miles, in.Color, in.ClassificationID,
	).Scan(&id)
	if err != nil {
		return nil, dataErr("add vehicle", err)
	}
	return s.GetVehicle(ctx, id)
}
