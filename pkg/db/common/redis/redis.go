package redis

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/rueidis"

	dbTypes "github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common/types"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/db/common/util"
)

// redis: HASH KEY: "metadata" FIELD: "db" VALUE: dbTypes.Metadata

// redis: HASH KEY: "catalog" FIELD: <MonthID> VALUE: zstd(dbTypes.Month)

type Connection struct {
	Config *rueidis.ClientOption

	conn rueidis.Client
}

func (c *Connection) Open() error {
	if c.Config == nil {
		return errors.New("connection config is not set")
	}

	client, err := rueidis.NewClient(*c.Config)
	if err != nil {
		return errors.WithStack(err)
	}
	c.conn = client
	return nil
}

func (c *Connection) Close() error {
	if c.conn == nil {
		return nil
	}
	c.conn.Close()
	return nil
}

func (c *Connection) GetMetadata() (*dbTypes.Metadata, error) {
	bs, err := c.conn.Do(context.TODO(), c.conn.B().Hget().Key("metadata").Field("db").Build()).AsBytes()
	if err != nil {
		return nil, errors.Wrapf(err, "HGET %s %s", "metadata", "db")
	}

	var v dbTypes.Metadata
	if err := util.Unmarshal(bs, false, &v); err != nil {
		return nil, errors.Wrap(err, "unmarshal metadata:db")
	}

	return &v, nil
}

func (c *Connection) PutMetadata(metadata dbTypes.Metadata) error {
	bs, err := util.Marshal(metadata, false)
	if err != nil {
		return errors.Wrap(err, "marshal metadata")
	}

	if err := c.conn.Do(context.TODO(), c.conn.B().Hset().Key("metadata").FieldValue().FieldValue("db", string(bs)).Build()).Error(); err != nil {
		return errors.Wrapf(err, "HSET %s %s", "metadata", "db")
	}

	return nil
}

func (c *Connection) GetMonth(monthID string) (*dbTypes.Month, error) {
	res := c.conn.Do(context.TODO(), c.conn.B().Hget().Key("catalog").Field(monthID).Build())
	if err := res.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "HGET %s %s", "catalog", monthID)
	}

	bs, err := res.AsBytes()
	if err != nil {
		return nil, errors.Wrapf(err, "HGET %s %s", "catalog", monthID)
	}

	var v dbTypes.Month
	if err := util.Unmarshal(bs, true, &v); err != nil {
		return nil, errors.Wrapf(err, "unmarshal catalog:%s", monthID)
	}

	return &v, nil
}

func (c *Connection) PutMonth(month dbTypes.Month) error {
	bs, err := util.Marshal(month, true)
	if err != nil {
		return errors.Wrapf(err, "marshal catalog:%s", month.ID)
	}

	if err := c.conn.Do(context.TODO(), c.conn.B().Hset().Key("catalog").FieldValue().FieldValue(month.ID, string(bs)).Build()).Error(); err != nil {
		return errors.Wrapf(err, "HSET %s %s", "catalog", month.ID)
	}

	return nil
}

func (c *Connection) ListMonths() ([]string, error) {
	months, err := c.conn.Do(context.TODO(), c.conn.B().Hkeys().Key("catalog").Build()).AsStrSlice()
	if err != nil {
		return nil, errors.Wrapf(err, "HKEYS %s", "catalog")
	}
	return months, nil
}

func (c *Connection) DeleteAll() error {
	if err := c.conn.Do(context.TODO(), c.conn.B().Flushdb().Build()).Error(); err != nil {
		return errors.Wrap(err, "FLUSHDB")
	}
	return nil
}

func (c *Connection) Initialize() error {
	if err := c.DeleteAll(); err != nil {
		return errors.Wrap(err, "delete all")
	}
	return nil
}
