package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vxronica/mechanic-shop/internal/handlers"
	"github.com/vxronica/mechanic-shop/internal/models"
)

type ticketFixture struct {
	router   *gin.Engine
	db       *gorm.DB
	customer models.Customer
	mech1    models.Mechanic
	mech2    models.Mechanic
	part     models.Inventory
}

func setupTicketTest(t *testing.T) ticketFixture {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect test database: " + err.Error())
	}

	err = testDB.AutoMigrate(&models.Customer{}, &models.Mechanic{}, &models.Inventory{}, &models.ServiceTicket{})
	if err != nil {
		panic("failed to auto-migrate models: " + err.Error())
	}

	handler := &handlers.TicketHandler{DB: testDB}

	r := gin.New()
	r.Use(gin.Recovery())

	tickets := r.Group("/tickets")
	{
		tickets.POST("/", handler.Create)
		tickets.GET("/", handler.List)
		tickets.GET("/:id", handler.Get)
		tickets.PUT("/:id", handler.Update)
		tickets.PUT("/:id/edit", handler.EditMechanics)
		tickets.PUT("/:id/add_part", handler.AddPart)
	}

	customer := models.Customer{Name: "Luke", Email: "luke@example.com", Phone: "1111111111", Password: "irrelevant-hash"}
	assert.NoError(t, testDB.Create(&customer).Error)

	mech1 := models.Mechanic{Name: "Ana", Email: "ana@example.com", Phone: "2222222222", Salary: 40000}
	mech2 := models.Mechanic{Name: "Ben", Email: "ben@example.com", Phone: "3333333333", Salary: 45000}
	assert.NoError(t, testDB.Create(&mech1).Error)
	assert.NoError(t, testDB.Create(&mech2).Error)

	part := models.Inventory{Name: "Brake pad", Price: 49.99}
	assert.NoError(t, testDB.Create(&part).Error)

	return ticketFixture{router: r, db: testDB, customer: customer, mech1: mech1, mech2: mech2, part: part}
}

func (f ticketFixture) createTicket(t *testing.T) models.ServiceTicket {
	t.Helper()

	body := handlers.CreateTicketRequest{
		VIN:         "1HGCM82633A004352",
		ServiceDate: "2025-07-14",
		ServiceDesc: "Engine fix",
		CustomerID:  f.customer.ID,
		MechanicIDs: []uint{f.mech1.ID},
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, jsonRequest(http.MethodPost, "/tickets/", body))
	assert.Equal(t, http.StatusCreated, recorder.Code)

	var ticket models.ServiceTicket
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &ticket))
	return ticket
}

func (f ticketFixture) ticketCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	assert.NoError(t, f.db.Model(&models.ServiceTicket{}).Count(&count).Error)
	return count
}

func TestCreateTicketHandler(t *testing.T) {
	f := setupTicketTest(t)

	t.Run("Successfully creates a ticket with its mechanics", func(t *testing.T) {
		ticket := f.createTicket(t)

		assert.Greater(t, ticket.ID, uint(0))
		assert.Equal(t, "1HGCM82633A004352", ticket.VIN)
		assert.Equal(t, "2025-07-14", ticket.ServiceDate.String())
		assert.Equal(t, f.customer.ID, ticket.CustomerID)
		assert.Equal(t, f.customer.Email, ticket.Customer.Email)
		assert.Len(t, ticket.Mechanics, 1)
		assert.Equal(t, f.mech1.ID, ticket.Mechanics[0].ID)
		assert.Len(t, ticket.Parts, 0)
	})

	t.Run("Lists the missing required fields", func(t *testing.T) {
		body := map[string]interface{}{"VIN": "XYZ123", "customer_id": f.customer.ID}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPost, "/tickets/", body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Missing required fields")
		assert.Contains(t, recorder.Body.String(), "service_date")
		assert.Contains(t, recorder.Body.String(), "mechanic_ids")
	})

	t.Run("Rejects an empty mechanic list", func(t *testing.T) {
		body := map[string]interface{}{
			"VIN":          "XYZ123",
			"service_date": "2025-07-14",
			"service_desc": "Oil change",
			"customer_id":  f.customer.ID,
			"mechanic_ids": []uint{},
		}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPost, "/tickets/", body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Rejects an unknown customer", func(t *testing.T) {
		body := handlers.CreateTicketRequest{
			VIN:         "XYZ123",
			ServiceDate: "2025-07-14",
			ServiceDesc: "Oil change",
			CustomerID:  999,
			MechanicIDs: []uint{f.mech1.ID},
		}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPost, "/tickets/", body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid customer ID")
	})

	t.Run("A partial mechanic match rejects the whole mutation", func(t *testing.T) {
		before := f.ticketCount(t)

		body := handlers.CreateTicketRequest{
			VIN:         "XYZ123",
			ServiceDate: "2025-07-14",
			ServiceDesc: "Oil change",
			CustomerID:  f.customer.ID,
			MechanicIDs: []uint{f.mech1.ID, 999},
		}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPost, "/tickets/", body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid mechanic IDs")
		assert.Equal(t, before, f.ticketCount(t), "no ticket row may be written")
	})

	t.Run("Rejects a non-ISO service date", func(t *testing.T) {
		body := handlers.CreateTicketRequest{
			VIN:         "XYZ123",
			ServiceDate: "07/14/2025",
			ServiceDesc: "Oil change",
			CustomerID:  f.customer.ID,
			MechanicIDs: []uint{f.mech1.ID},
		}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPost, "/tickets/", body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "ISO date")
	})

	t.Run("Rejects a VIN over 17 characters", func(t *testing.T) {
		body := handlers.CreateTicketRequest{
			VIN:         "THISVINISWAYTOOLONG123",
			ServiceDate: "2025-07-14",
			ServiceDesc: "Oil change",
			CustomerID:  f.customer.ID,
			MechanicIDs: []uint{f.mech1.ID},
		}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPost, "/tickets/", body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGetTickets(t *testing.T) {
	f := setupTicketTest(t)
	ticket := f.createTicket(t)

	t.Run("Lists tickets with nested associations", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodGet, "/tickets/", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var response []models.ServiceTicket
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Len(t, response, 1)
		assert.Len(t, response[0].Mechanics, 1)
		assert.Equal(t, f.customer.Email, response[0].Customer.Email)
	})

	t.Run("Gets a ticket by id", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodGet, fmt.Sprintf("/tickets/%d", ticket.ID), nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Returns 404 for an unknown id", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodGet, "/tickets/999", nil))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Ticket not found")
	})
}

func TestUpdateTicket(t *testing.T) {
	f := setupTicketTest(t)

	t.Run("Updating only service_desc leaves everything else unchanged", func(t *testing.T) {
		ticket := f.createTicket(t)

		body := map[string]interface{}{"service_desc": "Brake & oil"}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPut, fmt.Sprintf("/tickets/%d", ticket.ID), body))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var updated models.ServiceTicket
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &updated))
		assert.Equal(t, "Brake & oil", updated.ServiceDesc)
		assert.Equal(t, ticket.VIN, updated.VIN)
		assert.Equal(t, ticket.ServiceDate.String(), updated.ServiceDate.String())
		assert.Equal(t, ticket.CustomerID, updated.CustomerID)
		assert.Len(t, updated.Mechanics, 1)
		assert.Equal(t, f.mech1.ID, updated.Mechanics[0].ID)
	})

	t.Run("Replaces the mechanic set wholesale when supplied", func(t *testing.T) {
		ticket := f.createTicket(t)

		body := map[string]interface{}{"mechanic_ids": []uint{f.mech2.ID}}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPut, fmt.Sprintf("/tickets/%d", ticket.ID), body))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var updated models.ServiceTicket
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &updated))
		assert.Len(t, updated.Mechanics, 1)
		assert.Equal(t, f.mech2.ID, updated.Mechanics[0].ID)
	})

	t.Run("An unresolvable mechanic id rejects the whole update", func(t *testing.T) {
		ticket := f.createTicket(t)

		body := map[string]interface{}{
			"service_desc": "Should not stick",
			"mechanic_ids": []uint{f.mech1.ID, 999},
		}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPut, fmt.Sprintf("/tickets/%d", ticket.ID), body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var stored models.ServiceTicket
		f.db.First(&stored, ticket.ID)
		assert.Equal(t, "Engine fix", stored.ServiceDesc)
	})

	t.Run("Rejects an unknown customer id", func(t *testing.T) {
		ticket := f.createTicket(t)

		body := map[string]interface{}{"customer_id": 999}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPut, fmt.Sprintf("/tickets/%d", ticket.ID), body))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid customer ID")
	})

	t.Run("Returns 404 for an unknown ticket", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPut, "/tickets/999", map[string]interface{}{"service_desc": "X"}))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestEditTicketMechanics(t *testing.T) {
	f := setupTicketTest(t)
	ticket := f.createTicket(t)

	edit := func(addIDs, removeIDs []uint) *httptest.ResponseRecorder {
		body := handlers.EditMechanicsRequest{AddIDs: addIDs, RemoveIDs: removeIDs}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPut, fmt.Sprintf("/tickets/%d/edit", ticket.ID), body))
		return recorder
	}

	mechanicIDs := func(recorder *httptest.ResponseRecorder) []uint {
		var response models.ServiceTicket
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		ids := make([]uint, 0, len(response.Mechanics))
		for _, m := range response.Mechanics {
			ids = append(ids, m.ID)
		}
		return ids
	}

	t.Run("Attaches a new mechanic", func(t *testing.T) {
		recorder := edit([]uint{f.mech2.ID}, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.ElementsMatch(t, []uint{f.mech1.ID, f.mech2.ID}, mechanicIDs(recorder))
	})

	t.Run("Attaching an already-attached mechanic is a no-op", func(t *testing.T) {
		recorder := edit([]uint{f.mech2.ID}, nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.ElementsMatch(t, []uint{f.mech1.ID, f.mech2.ID}, mechanicIDs(recorder))
	})

	t.Run("Nonexistent ids are skipped silently", func(t *testing.T) {
		recorder := edit([]uint{999}, []uint{888})
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.ElementsMatch(t, []uint{f.mech1.ID, f.mech2.ID}, mechanicIDs(recorder))
	})

	t.Run("Detaches an attached mechanic", func(t *testing.T) {
		recorder := edit(nil, []uint{f.mech2.ID})
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.ElementsMatch(t, []uint{f.mech1.ID}, mechanicIDs(recorder))
	})

	t.Run("Removing a non-member is a no-op", func(t *testing.T) {
		recorder := edit(nil, []uint{f.mech2.ID})
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.ElementsMatch(t, []uint{f.mech1.ID}, mechanicIDs(recorder))
	})

	t.Run("Returns 404 for an unknown ticket", func(t *testing.T) {
		body := handlers.EditMechanicsRequest{AddIDs: []uint{f.mech2.ID}}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPut, "/tickets/999/edit", body))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestAddPartToTicket(t *testing.T) {
	f := setupTicketTest(t)
	ticket := f.createTicket(t)

	addPart := func(ticketID interface{}, partID uint) *httptest.ResponseRecorder {
		body := handlers.AddPartRequest{PartID: partID}
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, jsonRequest(http.MethodPut, fmt.Sprintf("/tickets/%v/add_part", ticketID), body))
		return recorder
	}

	t.Run("Attaches a part", func(t *testing.T) {
		recorder := addPart(ticket.ID, f.part.ID)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var response models.ServiceTicket
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Len(t, response.Parts, 1)
		assert.Equal(t, f.part.ID, response.Parts[0].ID)
	})

	t.Run("Attaching an already-attached part reports success without duplicating", func(t *testing.T) {
		recorder := addPart(ticket.ID, f.part.ID)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var response models.ServiceTicket
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Len(t, response.Parts, 1)

		var pairs int64
		f.db.Table("ticket_inventory").Where("service_ticket_id = ?", ticket.ID).Count(&pairs)
		assert.Equal(t, int64(1), pairs)
	})

	t.Run("Returns 404 for an unknown ticket", func(t *testing.T) {
		recorder := addPart(999, f.part.ID)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Returns 404 for an unknown part", func(t *testing.T) {
		recorder := addPart(ticket.ID, 999)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid part ID")
	})
}
