package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medtrack/biomed-maintenance/internal/db"
	"github.com/medtrack/biomed-maintenance/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MockWorkOrderCollection is a mock implementation of WorkOrderCollection
type MockWorkOrderCollection struct {
	mock.Mock
}

func (m *MockWorkOrderCollection) InsertWorkOrder(ctx context.Context, order models.WorkOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockWorkOrderCollection) FindWorkOrders(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.WorkOrderCursor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(db.WorkOrderCursor), args.Error(1)
}

func (m *MockWorkOrderCollection) FindWorkOrderByID(ctx context.Context, id string) (*models.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderCollection) UpdateWorkOrderCAS(ctx context.Context, id string, expectedVersion int64, order models.WorkOrder) error {
	args := m.Called(ctx, id, expectedVersion, order)
	return args.Error(0)
}

func (m *MockWorkOrderCollection) DeleteWorkOrder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEquipmentCollection is a mock implementation of EquipmentCollection
type MockEquipmentCollection struct {
	mock.Mock
}

func (m *MockEquipmentCollection) InsertEquipment(ctx context.Context, equipment models.Equipment) error {
	args := m.Called(ctx, equipment)
	return args.Error(0)
}

func (m *MockEquipmentCollection) FindEquipment(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.EquipmentCursor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(db.EquipmentCursor), args.Error(1)
}

func (m *MockEquipmentCollection) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockEquipmentCollection) UpdateEquipment(ctx context.Context, id string, equipment models.Equipment) error {
	args := m.Called(ctx, id, equipment)
	return args.Error(0)
}

func (m *MockEquipmentCollection) DeleteEquipment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserCollection is a mock implementation of UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockUserCollection) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newWorkOrderHandler() (*WorkOrderHandler, *MockWorkOrderCollection, *MockEquipmentCollection, *MockUserCollection) {
	orders := new(MockWorkOrderCollection)
	equipment := new(MockEquipmentCollection)
	users := new(MockUserCollection)
	return NewWorkOrderHandler(orders, equipment, users), orders, equipment, users
}

func TestWorkOrderHandler_Create(t *testing.T) {
	t.Run("creates open order", func(t *testing.T) {
		handler, orders, equipment, _ := newWorkOrderHandler()

		equipment.On("FindEquipmentByID", mock.Anything, "eq-1").Return(&models.Equipment{Name: "Ventilator"}, nil)
		orders.On("InsertWorkOrder", mock.Anything, mock.AnythingOfType("models.WorkOrder")).Return(nil)

		body, _ := json.Marshal(map[string]string{
			"equipment_id": "eq-1",
			"kind":         "corrective",
			"priority":     "high",
			"description":  "alarm fault",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/work-orders", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		var order models.WorkOrder
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.Equal(t, models.StatusOpen, order.Status)
		assert.NotEmpty(t, order.OrderNumber)
		orders.AssertExpectations(t)
	})

	t.Run("missing description fails validation", func(t *testing.T) {
		handler, _, _, _ := newWorkOrderHandler()

		body, _ := json.Marshal(map[string]string{
			"equipment_id": "eq-1",
			"kind":         "corrective",
			"priority":     "high",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/work-orders", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		handler, _, _, _ := newWorkOrderHandler()

		req := httptest.NewRequest(http.MethodPost, "/api/work-orders", bytes.NewBuffer([]byte("{bad json")))
		w := httptest.NewRecorder()

		handler.Create(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWorkOrderHandler_Assign(t *testing.T) {
	orderID := primitive.NewObjectID()
	techID := primitive.NewObjectID()

	t.Run("assigns qualified technician", func(t *testing.T) {
		handler, orders, _, users := newWorkOrderHandler()

		order := &models.WorkOrder{ID: orderID, Status: models.StatusOpen, Version: 3}
		orders.On("FindWorkOrderByID", mock.Anything, orderID.Hex()).Return(order, nil)
		users.On("FindUserByID", mock.Anything, techID.Hex()).Return(&models.User{
			ID: techID, Role: models.RoleTechnician, IsActive: true,
		}, nil)
		orders.On("UpdateWorkOrderCAS", mock.Anything, orderID.Hex(), int64(3), mock.AnythingOfType("models.WorkOrder")).Return(nil)

		body, _ := json.Marshal(map[string]string{"order_id": orderID.Hex(), "technician_id": techID.Hex()})
		req := httptest.NewRequest(http.MethodPost, "/api/work-orders/assign", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Assign(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		orders.AssertExpectations(t)
	})

	t.Run("rejects unqualified role", func(t *testing.T) {
		handler, orders, _, users := newWorkOrderHandler()

		order := &models.WorkOrder{ID: orderID, Status: models.StatusOpen, Version: 1}
		orders.On("FindWorkOrderByID", mock.Anything, orderID.Hex()).Return(order, nil)
		users.On("FindUserByID", mock.Anything, techID.Hex()).Return(&models.User{
			ID: techID, Role: models.RoleViewer, IsActive: true,
		}, nil)

		body, _ := json.Marshal(map[string]string{"order_id": orderID.Hex(), "technician_id": techID.Hex()})
		req := httptest.NewRequest(http.MethodPost, "/api/work-orders/assign", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Assign(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("lost compare-and-set race", func(t *testing.T) {
		handler, orders, _, users := newWorkOrderHandler()

		order := &models.WorkOrder{ID: orderID, Status: models.StatusOpen, Version: 2}
		orders.On("FindWorkOrderByID", mock.Anything, orderID.Hex()).Return(order, nil)
		users.On("FindUserByID", mock.Anything, techID.Hex()).Return(&models.User{
			ID: techID, Role: models.RoleSupervisor, IsActive: true,
		}, nil)
		orders.On("UpdateWorkOrderCAS", mock.Anything, orderID.Hex(), int64(2), mock.AnythingOfType("models.WorkOrder")).Return(db.ErrConcurrentModification)

		body, _ := json.Marshal(map[string]string{"order_id": orderID.Hex(), "technician_id": techID.Hex()})
		req := httptest.NewRequest(http.MethodPost, "/api/work-orders/assign", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Assign(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestWorkOrderHandler_ChangeStatus(t *testing.T) {
	orderID := primitive.NewObjectID()

	t.Run("transition to in_progress", func(t *testing.T) {
		handler, orders, _, _ := newWorkOrderHandler()

		order := &models.WorkOrder{ID: orderID, Status: models.StatusOpen, Version: 1, CreatedAt: time.Now()}
		orders.On("FindWorkOrderByID", mock.Anything, orderID.Hex()).Return(order, nil)
		orders.On("UpdateWorkOrderCAS", mock.Anything, orderID.Hex(), int64(1), mock.AnythingOfType("models.WorkOrder")).Return(nil)

		body, _ := json.Marshal(map[string]string{"order_id": orderID.Hex(), "status": "in_progress"})
		req := httptest.NewRequest(http.MethodPost, "/api/work-orders/status", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.ChangeStatus(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var updated models.WorkOrder
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, models.StatusInProgress, updated.Status)
		assert.NotNil(t, updated.StartedAt)
	})

	t.Run("terminal order refuses transition", func(t *testing.T) {
		handler, orders, _, _ := newWorkOrderHandler()

		order := &models.WorkOrder{ID: orderID, Status: models.StatusCompleted, Version: 4}
		orders.On("FindWorkOrderByID", mock.Anything, orderID.Hex()).Return(order, nil)

		body, _ := json.Marshal(map[string]string{"order_id": orderID.Hex(), "status": "open"})
		req := httptest.NewRequest(http.MethodPost, "/api/work-orders/status", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.ChangeStatus(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		handler, orders, _, _ := newWorkOrderHandler()

		order := &models.WorkOrder{ID: orderID, Status: models.StatusOpen, Version: 1}
		orders.On("FindWorkOrderByID", mock.Anything, orderID.Hex()).Return(order, nil)

		body, _ := json.Marshal(map[string]string{"order_id": orderID.Hex(), "status": "paused"})
		req := httptest.NewRequest(http.MethodPost, "/api/work-orders/status", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.ChangeStatus(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWorkOrderHandler_Delete(t *testing.T) {
	orderID := primitive.NewObjectID()

	t.Run("open order is deletable", func(t *testing.T) {
		handler, orders, _, _ := newWorkOrderHandler()

		order := &models.WorkOrder{ID: orderID, Status: models.StatusOpen}
		orders.On("FindWorkOrderByID", mock.Anything, orderID.Hex()).Return(order, nil)
		orders.On("DeleteWorkOrder", mock.Anything, orderID.Hex()).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/work-orders?id="+orderID.Hex(), nil)
		w := httptest.NewRecorder()

		handler.Delete(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		orders.AssertExpectations(t)
	})

	t.Run("completed order is not deletable", func(t *testing.T) {
		handler, orders, _, _ := newWorkOrderHandler()

		order := &models.WorkOrder{ID: orderID, Status: models.StatusCompleted}
		orders.On("FindWorkOrderByID", mock.Anything, orderID.Hex()).Return(order, nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/work-orders?id="+orderID.Hex(), nil)
		w := httptest.NewRecorder()

		handler.Delete(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
		orders.AssertNotCalled(t, "DeleteWorkOrder", mock.Anything, mock.Anything)
	})
}
