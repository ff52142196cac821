package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateVisualization_BlobsPassedThrough(t *testing.T) {
	s, mock, closeDB := newMockStorage(t)
	defer closeDB()

	config := `{"chartType":"bar"}`
	data := `{"labels":["Jan"],"values":[42]}`
	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO public\.visualizations`).
		WithArgs("u1", "Engagement by month", "bar", config, data).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "title", "type", "config", "data", "created_at", "updated_at"}).
				AddRow("v1", "u1", "Engagement by month", "bar", []byte(config), []byte(data), now, now),
		)

	v, err := s.CreateVisualization(context.Background(), NewVisualization{
		UserID: "u1",
		Title:  "Engagement by month",
		Type:   "bar",
		Config: json.RawMessage(config),
		Data:   json.RawMessage(data),
	})
	if err != nil {
		t.Fatalf("CreateVisualization: %v", err)
	}
	if string(v.Config) != config {
		t.Fatalf("config not passed through: %s", v.Config)
	}
	if string(v.Data) != data {
		t.Fatalf("data not passed through: %s", v.Data)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestCreateVisualization_RequiresBlobs(t *testing.T) {
	s, _, closeDB := newMockStorage(t)
	defer closeDB()

	_, err := s.CreateVisualization(context.Background(), NewVisualization{
		UserID: "u1",
		Title:  "t",
		Type:   "bar",
	})
	if !IsValidation(err) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestDeleteVisualization_OwnerScoped(t *testing.T) {
	s, mock, closeDB := newMockStorage(t)
	defer closeDB()

	mock.ExpectExec(`DELETE FROM public\.visualizations\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs("v1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.DeleteVisualization(context.Background(), "u1", "v1"); err != nil {
		t.Fatalf("DeleteVisualization: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestDeleteVisualization_OtherOwnerLooksLikeMissing(t *testing.T) {
	s, mock, closeDB := newMockStorage(t)
	defer closeDB()

	mock.ExpectExec(`DELETE FROM public\.visualizations`).
		WithArgs("v1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteVisualization(context.Background(), "intruder", "v1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}
