package sqlinline

const QSelectStatus = `--sql d416b468-5af8-42f8-b3a5-be2ea946f9e1
select id, lat::float8, lng::float8, km::float8, updated_at
from status
where id = $1::int
limit 1;
`

// QUpsertStatus also recreates the singleton row if provisioning was skipped.
const QUpsertStatus = `--sql c4567827-96b2-4b0f-b671-490dfab9c909
insert into status(id, lat, lng, km, updated_at)
values ($1::int, $2::float8, $3::float8, $4::float8, now())
on conflict (id) do update set
    lat = excluded.lat,
    lng = excluded.lng,
    km = excluded.km,
    updated_at = excluded.updated_at
returning updated_at;
`
