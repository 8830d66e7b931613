package seed

import (
	"time"
	"upkeep/config"
	"upkeep/internal/recurrence"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

// defaultEquipmentNames is the stock fleet a new site is populated with in
// development. Annual testing with a four-week lead, except the quarterly
// audits.
var defaultEquipmentNames = []string{
	"CT",
	"PET/CT",
	"Gamma Camera",
	"Nuclear Medicine",
	"Mammography",
	"MRI",
	"Ultrasound",
	"Fluoroscopy",
	"Interventional Radiology",
	"Radiographic",
	"Radiographic/Fluoroscopic",
	"Dental",
	"Bone Densitometry",
	"Quarterly Audits",
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	business := Business{Name: "Acme Physics Services"}
	if err := firstOrCreate(db, &business, "name = ?", business.Name); err != nil {
		return log.Err("failed to seed business", err)
	}

	users := []User{
		{Email: "admin@example.com", DisplayName: "Administrator", IsAdmin: true},
		{Email: "operator@example.com", DisplayName: "Operator", BusinessID: &business.ID},
	}
	for i := range users {
		if err := firstOrCreate(db, &users[i], "email = ?", users[i].Email); err != nil {
			return log.Err("failed to seed user", err, "email", users[i].Email)
		}
	}

	client := Client{BusinessID: business.ID, Name: "Mercy General Hospital"}
	if err := firstOrCreate(db, &client, "business_id = ? AND name = ?", business.ID, client.Name); err != nil {
		return log.Err("failed to seed client", err)
	}

	site := Site{ClientID: client.ID, Name: "Main Campus"}
	if err := firstOrCreate(db, &site, "client_id = ? AND name = ?", client.ID, site.Name); err != nil {
		return log.Err("failed to seed site", err)
	}

	if err := seedEquipment(db, business.ID, client.ID, site.ID, log); err != nil {
		return err
	}

	log.Info("Development data seeded")
	return nil
}

// seedEquipment gives the seed site one record per default equipment name,
// each under a tenant-owned type. Anchors are staggered weekly so the due
// windows have something in them from day one.
func seedEquipment(db *gorm.DB, businessID, clientID, siteID int, log logger.Logger) error {
	anchor := recurrence.DateOnly(time.Now().UTC()).AddDate(-1, 0, 0)

	for i, name := range defaultEquipmentNames {
		intervalWeeks, leadWeeks := 52, 4
		if name == "Quarterly Audits" {
			intervalWeeks, leadWeeks = 13, 3
		}

		equipmentType := EquipmentType{
			BusinessID:       &businessID,
			Name:             name,
			IntervalWeeks:    intervalWeeks,
			Pattern:          recurrence.PatternFor(intervalWeeks),
			DefaultLeadWeeks: leadWeeks,
			Active:           true,
		}
		err := firstOrCreate(db, &equipmentType, "business_id = ? AND name = ?", businessID, name)
		if err != nil {
			return log.Err("failed to seed equipment type", err, "name", name)
		}

		recordAnchor := anchor.AddDate(0, 0, 7*i)
		due := recurrence.NextDueOrAnchor(recordAnchor, intervalWeeks, recurrence.DateOnly(time.Now().UTC()))
		record := EquipmentRecord{
			ClientID:        clientID,
			SiteID:          siteID,
			EquipmentTypeID: equipmentType.ID,
			Name:            name,
			AnchorDate:      recordAnchor,
			DueDate:         &due,
			IntervalWeeks:   intervalWeeks,
			Active:          true,
		}
		err = firstOrCreate(db, &record,
			"site_id = ? AND equipment_type_id = ? AND anchor_date = ?",
			siteID, equipmentType.ID, recordAnchor)
		if err != nil {
			return log.Err("failed to seed equipment record", err, "name", name)
		}
	}

	return nil
}

func firstOrCreate[T any](db *gorm.DB, entity *T, query string, args ...any) error {
	var existing T
	if err := db.First(&existing, append([]any{query}, args...)...).Error; err == nil {
		*entity = existing
		return nil
	}
	return db.Create(entity).Error
}
