package sqlinline

const QSelectAdminByEmail = `--sql 8df9d203-ee05-4c39-9308-3c6588a8484f
select id::text, email, password_hash, created_at
from admins
where lower(email) = lower($1::text)
limit 1;
`

const QInsertAdmin = `--sql 91c73217-49ca-4415-93d3-3372aeb28e7a
insert into admins(id, email, password_hash, created_at)
values (gen_random_uuid(), lower($1::text), $2::text, now())
on conflict (email) do update set password_hash = excluded.password_hash
returning id::text, created_at;
`
