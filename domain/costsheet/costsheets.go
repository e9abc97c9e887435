package costsheet

import (
	"wagondepot/event"
	"wagondepot/idgen"
	"wagondepot/persistence"
	"wagondepot/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

// CostSheet is the per-wagon repair cost breakdown. Cost figures are
// passed through as supplied, tallying them is the client's concern.
type CostSheet struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	WagonNumber string `json:"wagonNumber"`
	WagonType   string `json:"wagonType"`
	Customer    string `json:"customer"`
	RepairType  string `json:"repairType"`
	WorkName    string `json:"workName"`

	RepairStart types.Timestamp `json:"repairStart" sql:"type:DATETIME(6)"`
	RepairEnd   types.Timestamp `json:"repairEnd" sql:"type:DATETIME(6)"`

	WorkCost            float64 `json:"workCost"`
	MaterialCost        float64 `json:"materialCost"`
	EnergyCost          float64 `json:"energyCost"`
	FuelCost            float64 `json:"fuelCost"`
	SocialContributions float64 `json:"socialContributions"`
	Total               float64 `json:"total"`
	TotalWithVAT        float64 `json:"totalWithVAT"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (s *CostSheet) TableName() string {
	return "cost_sheets"
}

type CostSheetCreation struct {
	WagonNumber string `json:"wagonNumber" binding:"required,lte=255"`
	WagonType   string `json:"wagonType" binding:"lte=255"`
	Customer    string `json:"customer" binding:"lte=255"`
	RepairType  string `json:"repairType" binding:"lte=255"`
	WorkName    string `json:"workName" binding:"lte=255"`

	RepairStart types.Timestamp `json:"repairStart"`
	RepairEnd   types.Timestamp `json:"repairEnd"`

	WorkCost            float64 `json:"workCost"`
	MaterialCost        float64 `json:"materialCost"`
	EnergyCost          float64 `json:"energyCost"`
	FuelCost            float64 `json:"fuelCost"`
	SocialContributions float64 `json:"socialContributions"`
	Total               float64 `json:"total"`
	TotalWithVAT        float64 `json:"totalWithVAT"`
}

var (
	costSheetIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateCostSheetFunc = CreateCostSheet
	QueryCostSheetsFunc = QueryCostSheets
	DetailCostSheetFunc = DetailCostSheet
	UpdateCostSheetFunc = UpdateCostSheet
	DeleteCostSheetFunc = DeleteCostSheet
)

func CreateCostSheet(c *CostSheetCreation, sec *session.Context) (*CostSheet, error) {
	sheet := buildCostSheet(c)
	sheet.ID = idgen.NextID(costSheetIdWorker)
	sheet.CreateTime = types.CurrentTimestamp()

	var ev *event.EventRecord
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sheet).Error; err != nil {
			return err
		}
		var err error
		ev, err = event.CreateEvent(event.SourceTypeCostSheet, sheet.ID, sheet.WagonNumber,
			event.EventCategoryCreated, nil, &sec.Identity, sheet.CreateTime, tx)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &sheet, nil
}

func QueryCostSheets() ([]CostSheet, error) {
	sheets := []CostSheet{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Order("id ASC").Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

func DetailCostSheet(id types.ID) (*CostSheet, error) {
	sheet := CostSheet{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&CostSheet{ID: id}).First(&sheet).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

func UpdateCostSheet(id types.ID, u *CostSheetCreation, sec *session.Context) (*CostSheet, error) {
	var sheet CostSheet
	var ev *event.EventRecord
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&CostSheet{ID: id}).First(&sheet).Error; err != nil {
			return err
		}

		updated := buildCostSheet(u)
		updated.ID = sheet.ID
		updated.CreateTime = sheet.CreateTime
		sheet = updated

		if err := tx.Save(&sheet).Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeCostSheet, sheet.ID, sheet.WagonNumber,
			event.EventCategoryPropertyUpdated, nil, &sec.Identity, types.CurrentTimestamp(), tx)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &sheet, nil
}

func DeleteCostSheet(id types.ID, sec *session.Context) (*CostSheet, error) {
	var sheet CostSheet
	var ev *event.EventRecord
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&CostSheet{ID: id}).First(&sheet).Error; err != nil {
			return err
		}
		if err := tx.Delete(CostSheet{}, "id = ?", id).Error; err != nil {
			return err
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeCostSheet, sheet.ID, sheet.WagonNumber,
			event.EventCategoryDeleted, nil, &sec.Identity, types.CurrentTimestamp(), tx)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	return &sheet, nil
}

func buildCostSheet(c *CostSheetCreation) CostSheet {
	return CostSheet{
		WagonNumber: c.WagonNumber,
		WagonType:   c.WagonType,
		Customer:    c.Customer,
		RepairType:  c.RepairType,
		WorkName:    c.WorkName,

		RepairStart: c.RepairStart,
		RepairEnd:   c.RepairEnd,

		WorkCost:            c.WorkCost,
		MaterialCost:        c.MaterialCost,
		EnergyCost:          c.EnergyCost,
		FuelCost:            c.FuelCost,
		SocialContributions: c.SocialContributions,
		Total:               c.Total,
		TotalWithVAT:        c.TotalWithVAT,
	}
}
