package wagon_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"wagondepot/bizerror"
	"wagondepot/domain/status"
	"wagondepot/domain/wagon"
	"wagondepot/session"
	"wagondepot/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/gomega"
)

func demoTimeString(t types.Timestamp) string {
	timeBytes, _ := t.Time().MarshalJSON()
	return strings.Trim(string(timeBytes), `"`)
}

func demoRecord(t types.Timestamp) *wagon.WagonRecord {
	return &wagon.WagonRecord{
		ID: 123, WagonNumber: "60123456", WagonType: "hopper", Customer: "customer1",
		Contract: "C-17", RepairType: "depot", WorkName: "overhaul", Executor: "team-a", Comment: "",
		RepairStart: t, RepairEnd: t,
		WorkGroups:    wagon.WorkGroups{"paint"},
		GroupStatuses: status.GroupStatuses{{Value: "paint", Status: status.WorkStatusPending}},
		Status:        status.WagonStatusNotStarted,
		CreateTime:    t,
	}
}

func demoRecordJson(t types.Timestamp) string {
	ts := demoTimeString(t)
	return `{"id": "123", "wagonNumber": "60123456", "wagonType": "hopper", "customer": "customer1",
		"contract": "C-17", "repairType": "depot", "workName": "overhaul", "executor": "team-a", "comment": "",
		"repairStart": "` + ts + `", "repairEnd": "` + ts + `",
		"workGroups": ["paint"], "workGroupStatus": [{"value": "paint", "status": "PENDING"}],
		"status": "NOT_STARTED", "createTime": "` + ts + `"}`
}

func TestQueryWagonRecordsAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	wagon.RegisterWagonRecordsRestAPI(router)

	t.Run("should be able to handle error", func(t *testing.T) {
		wagon.QueryWagonRecordsFunc = func() ([]wagon.WagonRecord, error) {
			return nil, errors.New("some error")
		}
		req := httptest.NewRequest(http.MethodGet, wagon.PathWagonRecords, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error", "message":"some error", "data":null}`))
	})

	t.Run("should be able to handle query request successfully", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 3, 1, 10, 0, 0, 0, time.Now().Location())
		wagon.QueryWagonRecordsFunc = func() ([]wagon.WagonRecord, error) {
			return []wagon.WagonRecord{*demoRecord(demoTime)}, nil
		}
		req := httptest.NewRequest(http.MethodGet, wagon.PathWagonRecords, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"list": [` + demoRecordJson(demoTime) + `], "total": 1}`))
	})
}

func TestCreateWagonRecordAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	wagon.RegisterWagonRecordsRestAPI(router)

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, wagon.PathWagonRecords, strings.NewReader("{}"))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message":"Key: 'WagonRecordCreation.WagonNumber' Error:Field validation for 'WagonNumber' failed on the 'required' tag",
			"data":null}`))

		req = httptest.NewRequest(http.MethodPost, wagon.PathWagonRecords, nil)
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code": "common.bad_param", "message": "EOF", "data": null}`))

		req = httptest.NewRequest(http.MethodPost, wagon.PathWagonRecords, strings.NewReader(" xx "))
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code": "common.bad_param", "message": "invalid character 'x' looking for beginning of value", "data": null}`))
	})

	t.Run("should be able to handle error", func(t *testing.T) {
		wagon.CreateWagonRecordFunc = func(c *wagon.WagonRecordCreation, sec *session.Context) (*wagon.WagonRecord, error) {
			return nil, errors.New("some error")
		}
		req := httptest.NewRequest(http.MethodPost, wagon.PathWagonRecords,
			strings.NewReader(`{"wagonNumber":"60123456"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error", "message":"some error", "data":null}`))
	})

	t.Run("should be able to create wagon record successfully", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 3, 1, 10, 0, 0, 0, time.Now().Location())
		var c1 wagon.WagonRecordCreation
		wagon.CreateWagonRecordFunc = func(c *wagon.WagonRecordCreation, sec *session.Context) (*wagon.WagonRecord, error) {
			c1 = *c
			return demoRecord(demoTime), nil
		}
		req := httptest.NewRequest(http.MethodPost, wagon.PathWagonRecords,
			strings.NewReader(`{"wagonNumber":"60123456", "wagonType":"hopper", "workGroups":["paint"]}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(body).To(MatchJSON(demoRecordJson(demoTime)))
		Expect(c1.WagonNumber).To(Equal("60123456"))
		Expect(c1.WorkGroups).To(Equal([]string{"paint"}))
	})
}

func TestDetailWagonRecordAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	wagon.RegisterWagonRecordsRestAPI(router)

	t.Run("should be able to validate id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, wagon.PathWagonRecords+"/abc", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code": "common.bad_param", "message": "invalid id 'abc'", "data": null}`))
	})

	t.Run("should be able to handle record not found", func(t *testing.T) {
		wagon.DetailWagonRecordFunc = func(id types.ID) (*wagon.WagonRecord, error) {
			return nil, gorm.ErrRecordNotFound
		}
		req := httptest.NewRequest(http.MethodGet, wagon.PathWagonRecords+"/123", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code": "common.record_not_found", "message": "record not found", "data": null}`))
	})

	t.Run("should be able to handle detail request successfully", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 3, 1, 10, 0, 0, 0, time.Now().Location())
		wagon.DetailWagonRecordFunc = func(id types.ID) (*wagon.WagonRecord, error) {
			Expect(id).To(Equal(types.ID(123)))
			return demoRecord(demoTime), nil
		}
		req := httptest.NewRequest(http.MethodGet, wagon.PathWagonRecords+"/123", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(demoRecordJson(demoTime)))
	})
}

func TestUpdateWagonRecordAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	wagon.RegisterWagonRecordsRestAPI(router)

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, wagon.PathWagonRecords+"/123", strings.NewReader("{}"))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message":"Key: 'WagonRecordUpdating.WagonNumber' Error:Field validation for 'WagonNumber' failed on the 'required' tag",
			"data":null}`))
	})

	t.Run("should reject an unknown work status", func(t *testing.T) {
		wagon.UpdateWagonRecordFunc = func(id types.ID, u *wagon.WagonRecordUpdating, sec *session.Context) (*wagon.WagonRecord, error) {
			return nil, bizerror.ErrUnknownWorkStatus
		}
		req := httptest.NewRequest(http.MethodPut, wagon.PathWagonRecords+"/123",
			strings.NewReader(`{"wagonNumber":"60123456", "workGroupStatus":[{"value":"paint","status":"finished"}]}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code": "wagon.unknown_work_status", "message": "unknown work status", "data": null}`))
	})

	t.Run("should be able to handle update request successfully", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 3, 1, 10, 0, 0, 0, time.Now().Location())
		var u1 wagon.WagonRecordUpdating
		wagon.UpdateWagonRecordFunc = func(id types.ID, u *wagon.WagonRecordUpdating, sec *session.Context) (*wagon.WagonRecord, error) {
			Expect(id).To(Equal(types.ID(123)))
			u1 = *u
			return demoRecord(demoTime), nil
		}
		req := httptest.NewRequest(http.MethodPut, wagon.PathWagonRecords+"/123",
			strings.NewReader(`{"wagonNumber":"60123456", "comment":"repainted",
				"workGroupStatus":[{"value":"paint","status":"DONE"}]}`))
		respStatus, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(respStatus).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(demoRecordJson(demoTime)))
		Expect(u1.Comment).To(Equal("repainted"))
		Expect(u1.WorkGroupStatus).To(Equal(status.GroupStatuses{{Value: "paint", Status: status.WorkStatusDone}}))
	})
}

func TestOverrideWagonStatusAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	wagon.RegisterWagonRecordsRestAPI(router)

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, wagon.PathWagonRecords+"/123/status",
			strings.NewReader(`{"status":"FINISHED"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message":"Key: 'StatusOverriding.Status' Error:Field validation for 'Status' failed on the 'oneof' tag",
			"data":null}`))
	})

	t.Run("should be able to handle override request successfully", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 3, 1, 10, 0, 0, 0, time.Now().Location())
		var o1 wagon.StatusOverriding
		wagon.OverrideWagonStatusFunc = func(id types.ID, o *wagon.StatusOverriding, sec *session.Context) (*wagon.WagonRecord, error) {
			Expect(id).To(Equal(types.ID(123)))
			o1 = *o
			return demoRecord(demoTime), nil
		}
		req := httptest.NewRequest(http.MethodPut, wagon.PathWagonRecords+"/123/status",
			strings.NewReader(`{"status":"DONE"}`))
		respStatus, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(respStatus).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(demoRecordJson(demoTime)))
		Expect(o1.Status).To(Equal(status.WagonStatusDone))
	})
}

func TestDeleteWagonRecordAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	wagon.RegisterWagonRecordsRestAPI(router)

	t.Run("should be able to handle record not found", func(t *testing.T) {
		wagon.DeleteWagonRecordFunc = func(id types.ID, sec *session.Context) (*wagon.WagonRecord, error) {
			return nil, gorm.ErrRecordNotFound
		}
		req := httptest.NewRequest(http.MethodDelete, wagon.PathWagonRecords+"/123", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code": "common.record_not_found", "message": "record not found", "data": null}`))
	})

	t.Run("should return the deleted snapshot", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 3, 1, 10, 0, 0, 0, time.Now().Location())
		wagon.DeleteWagonRecordFunc = func(id types.ID, sec *session.Context) (*wagon.WagonRecord, error) {
			Expect(id).To(Equal(types.ID(123)))
			return demoRecord(demoTime), nil
		}
		req := httptest.NewRequest(http.MethodDelete, wagon.PathWagonRecords+"/123", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(demoRecordJson(demoTime)))
	})
}
