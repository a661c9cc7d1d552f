package boltdb

import (
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	dbTypes "github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common/types"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common/util"
)

// boltdb: bucket:"metadata" key:"db" value:dbTypes.Metadata

// boltdb: bucket:"catalog" key:<MonthID> value:zstd(dbTypes.Month)
// An absent catalog bucket reads as no cached months; PutMonth creates it.

type Config struct {
	Path    string
	Options *bolt.Options
}

type Connection struct {
	Config *Config

	conn *bolt.DB
}

func (c *Connection) Open() error {
	if c.Config == nil {
		return errors.New("connection config is not set")
	}

	db, err := bolt.Open(c.Config.Path, 0600, c.Config.Options)
	if err != nil {
		return errors.WithStack(err)
	}
	c.conn = db
	return nil
}

func (c *Connection) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Connection) GetMetadata() (*dbTypes.Metadata, error) {
	var v dbTypes.Metadata
	if err := c.conn.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte("metadata"))
		if b == nil {
			return errors.Errorf("bucket:%q is not exists", "metadata")
		}

		if err := util.Unmarshal(b.Get([]byte("db")), false, &v); err != nil {
			return errors.Wrap(err, "unmarshal metadata:db")
		}

		return nil
	}); err != nil {
		return nil, errors.WithStack(err)
	}
	return &v, nil
}

func (c *Connection) PutMetadata(metadata dbTypes.Metadata) error {
	return c.conn.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte("metadata"))
		if err != nil {
			return errors.Wrapf(err, "create bucket:%q if not exists", "metadata")
		}

		bs, err := util.Marshal(metadata, false)
		if err != nil {
			return errors.Wrap(err, "marshal metadata")
		}

		if err := b.Put([]byte("db"), bs); err != nil {
			return errors.Wrap(err, "put metadata:db")
		}

		return nil
	})
}

func (c *Connection) GetMonth(monthID string) (*dbTypes.Month, error) {
	var month *dbTypes.Month
	if err := c.conn.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte("catalog"))
		if b == nil {
			return nil
		}

		bs := b.Get([]byte(monthID))
		if len(bs) == 0 {
			return nil
		}

		var v dbTypes.Month
		if err := util.Unmarshal(bs, true, &v); err != nil {
			return errors.Wrapf(err, "unmarshal catalog:%s", monthID)
		}
		month = &v

		return nil
	}); err != nil {
		return nil, errors.WithStack(err)
	}
	return month, nil
}

func (c *Connection) PutMonth(month dbTypes.Month) error {
	return c.conn.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte("catalog"))
		if err != nil {
			return errors.Wrapf(err, "create bucket:%q if not exists", "catalog")
		}

		bs, err := util.Marshal(month, true)
		if err != nil {
			return errors.Wrapf(err, "marshal catalog:%s", month.ID)
		}

		if err := b.Put([]byte(month.ID), bs); err != nil {
			return errors.Wrapf(err, "put catalog:%s", month.ID)
		}

		return nil
	})
}

func (c *Connection) ListMonths() ([]string, error) {
	var months []string
	if err := c.conn.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte("catalog"))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, _ []byte) error {
			months = append(months, string(k))
			return nil
		})
	}); err != nil {
		return nil, errors.WithStack(err)
	}
	return months, nil
}

func (c *Connection) DeleteAll() error {
	return c.conn.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{"metadata", "catalog"} {
			if tx.Bucket([]byte(name)) == nil {
				continue
			}
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return errors.Wrapf(err, "delete bucket:%q", name)
			}
		}
		return nil
	})
}

func (c *Connection) Initialize() error {
	if err := c.DeleteAll(); err != nil {
		return errors.Wrap(err, "delete all")
	}

	if err := c.conn.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte("catalog")); err != nil {
			return errors.Wrapf(err, "create bucket:%q if not exists", "catalog")
		}
		return nil
	}); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
