package rdb

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	dbTypes "github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common/types"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common/util"
)

type Config struct {
	Type    string
	Path    string
	Options []gorm.Option
}

type Connection struct {
	Config *Config

	conn *gorm.DB
}

type metadataModel struct {
	ID   uint   `gorm:"primarykey"`
	Data []byte `gorm:"not null"`
}

func (metadataModel) TableName() string {
	return "metadata"
}

type monthModel struct {
	ID   string `gorm:"primarykey"`
	Data []byte `gorm:"not null"`
}

func (monthModel) TableName() string {
	return "catalog_months"
}

func (c *Connection) Open() error {
	if c.Config == nil {
		return errors.New("connection config is not set")
	}

	switch c.Config.Type {
	case "sqlite3":
		db, err := gorm.Open(sqlite.Open(c.Config.Path), c.Config.Options...)
		if err != nil {
			return errors.WithStack(err)
		}
		c.conn = db
		return nil
	case "mysql":
		db, err := gorm.Open(mysql.Open(c.Config.Path), c.Config.Options...)
		if err != nil {
			return errors.WithStack(err)
		}
		c.conn = db
		return nil
	case "postgres":
		db, err := gorm.Open(postgres.Open(c.Config.Path), c.Config.Options...)
		if err != nil {
			return errors.WithStack(err)
		}
		c.conn = db
		return nil
	default:
		return errors.Errorf("%s is not support rdb dbtype", c.Config.Type)
	}
}

func (c *Connection) Close() error {
	if c.conn == nil {
		return nil
	}
	db, err := c.conn.DB()
	if err != nil {
		return errors.Wrap(err, "get *sql.DB")
	}
	return db.Close()
}

func (c *Connection) GetMetadata() (*dbTypes.Metadata, error) {
	var m metadataModel
	if err := c.conn.First(&m).Error; err != nil {
		return nil, errors.Wrap(err, "select metadata")
	}

	var v dbTypes.Metadata
	if err := util.Unmarshal(m.Data, false, &v); err != nil {
		return nil, errors.Wrap(err, "unmarshal metadata")
	}

	return &v, nil
}

func (c *Connection) PutMetadata(metadata dbTypes.Metadata) error {
	bs, err := util.Marshal(metadata, false)
	if err != nil {
		return errors.Wrap(err, "marshal metadata")
	}

	if err := c.conn.Save(&metadataModel{ID: 1, Data: bs}).Error; err != nil {
		return errors.Wrap(err, "save metadata")
	}

	return nil
}

func (c *Connection) GetMonth(monthID string) (*dbTypes.Month, error) {
	var m monthModel
	if err := c.conn.Where("id = ?", monthID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "select catalog month %s", monthID)
	}

	var v dbTypes.Month
	if err := util.Unmarshal(m.Data, true, &v); err != nil {
		return nil, errors.Wrapf(err, "unmarshal catalog:%s", monthID)
	}

	return &v, nil
}

func (c *Connection) PutMonth(month dbTypes.Month) error {
	bs, err := util.Marshal(month, true)
	if err != nil {
		return errors.Wrapf(err, "marshal catalog:%s", month.ID)
	}

	if err := c.conn.Save(&monthModel{ID: month.ID, Data: bs}).Error; err != nil {
		return errors.Wrapf(err, "save catalog month %s", month.ID)
	}

	return nil
}

func (c *Connection) ListMonths() ([]string, error) {
	var months []string
	if err := c.conn.Model(&monthModel{}).Pluck("id", &months).Error; err != nil {
		return nil, errors.Wrap(err, "select catalog months")
	}
	return months, nil
}

func (c *Connection) DeleteAll() error {
	for _, model := range []any{&metadataModel{}, &monthModel{}} {
		if !c.conn.Migrator().HasTable(model) {
			continue
		}
		if err := c.conn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return errors.Wrap(err, "delete all rows")
		}
	}
	return nil
}

func (c *Connection) Initialize() error {
	if err := c.conn.AutoMigrate(&metadataModel{}, &monthModel{}); err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	if err := c.DeleteAll(); err != nil {
		return errors.Wrap(err, "delete all")
	}

	return nil
}
